package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/cardea.db"

	// AdminSecret unlocks the admin capabilities.  Empty means elevation
	// can never succeed (permanent lock).
	AdminSecret string

	// AgentID scopes event-log queries.  Empty means unscoped.
	AgentID string

	// Event retention
	EventRetentionDays int // 0 = keep forever
	PruneIntervalHours int // how often the pruner runs (default 6)
}

func FromEnv() Config {
	addr := getenvDefault("CARDEA_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("CARDEA_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	dbPath := getenvDefault("CARDEA_DB_PATH", "./data/cardea.db")

	secret := os.Getenv("CARDEA_ADMIN_SECRET")
	agentID := strings.TrimSpace(os.Getenv("CARDEA_AGENT_ID"))

	retentionDays := getenvInt("CARDEA_EVENT_RETENTION_DAYS", 0)
	pruneInterval := getenvInt("CARDEA_PRUNE_INTERVAL_HOURS", 6)

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   dbPath,

		AdminSecret: secret,
		AgentID:     agentID,

		EventRetentionDays: retentionDays,
		PruneIntervalHours: pruneInterval,
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
