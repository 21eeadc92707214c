package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/capability"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/gate"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/service"
	sqlitestore "github.com/BrandonDHaskell/Cardea/internal/cardea/store/sqlite"
	"github.com/BrandonDHaskell/Cardea/internal/config"
	"github.com/BrandonDHaskell/Cardea/internal/db"
	"github.com/BrandonDHaskell/Cardea/internal/httpapi"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "cardea-agent ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	writer := db.NewWorker(conn)
	defer writer.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn, db.SeedDevOptions{AgentID: cfg.AgentID}); err != nil {
			logger.Printf("seed dev: %v", err)
		}
	}

	// Stores
	eventStore := sqlitestore.NewEventStore(conn, writer)
	roomStore := sqlitestore.NewRoomStore(conn, writer)
	entityStore := sqlitestore.NewEntityStore(conn, writer)

	// Admin module
	g := gate.New(cfg.AdminSecret, logger)
	adminSvc := service.NewAdminService(g, eventStore, roomStore, entityStore, cfg.AgentID, logger)
	caps := capability.Table(adminSvc)

	pruner := service.NewEventPruner(eventStore, service.PrunerConfig{
		RetentionDays: cfg.EventRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)
	pruner.Start(ctx)
	defer pruner.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:       logger,
		Addr:         cfg.HTTPAddr,
		AgentID:      cfg.AgentID,
		AdminService: adminSvc,
		Capabilities: caps,
		Events:       eventStore,
		Rooms:        roomStore,
		Entities:     entityStore,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
