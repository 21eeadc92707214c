package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/capability"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/service"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/store"
	"github.com/BrandonDHaskell/Cardea/internal/cardea/types"
)

type Dependencies struct {
	Logger       *log.Logger
	Addr         string
	AgentID      string
	AdminService *service.AdminService
	Capabilities []capability.Capability
	Events       store.EventStore
	Rooms        store.RoomStore
	Entities     store.EntityStore
}

type Server struct {
	httpServer   *http.Server
	logger       *log.Logger
	mux          *http.ServeMux
	agentID      string
	adminService *service.AdminService
	capabilities []capability.Capability
	events       store.EventStore
	rooms        store.RoomStore
	entities     store.EntityStore
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:       d.Logger,
		mux:          mux,
		agentID:      d.AgentID,
		adminService: d.AdminService,
		capabilities: d.Capabilities,
		events:       d.Events,
		rooms:        d.Rooms,
		entities:     d.Entities,
	}

	mux.HandleFunc("POST /v1/instruction", s.handleInstruction)
	mux.HandleFunc("POST /v1/events", s.handleIngestEvent)
	mux.HandleFunc("GET /v1/context", s.handleContext)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleInstruction(w http.ResponseWriter, r *http.Request) {
	var req types.InstructionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "empty_instruction", "text is required")
		return
	}

	resp, handled := capability.Dispatch(r.Context(), s.capabilities, req.Text)
	if !handled {
		resp = types.Response{
			Text:    "Instruction not recognized.",
			Success: false,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIngestEvent(w http.ResponseWriter, r *http.Request) {
	var req types.IngestEventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if req.RoomID == "" || req.EntityID == "" {
		writeError(w, http.StatusBadRequest, "missing_ids", "room_id and entity_id are required")
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := time.Now().UTC()
	if req.CreatedAtMs > 0 {
		createdAt = time.UnixMilli(req.CreatedAtMs).UTC()
	}

	ctx := r.Context()

	if req.RoomName != "" || req.RoomSource != "" {
		if err := s.rooms.Upsert(ctx, store.Room{
			ID:     req.RoomID,
			Name:   req.RoomName,
			Source: req.RoomSource,
		}); err != nil {
			s.logger.Printf("ingest upsert room error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}
	}
	if req.EntityName != "" {
		if err := s.entities.Upsert(ctx, store.Entity{
			ID:    req.EntityID,
			Names: []string{req.EntityName},
		}); err != nil {
			s.logger.Printf("ingest upsert entity error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
			return
		}
	}

	if err := s.events.Append(ctx, store.Event{
		ID:        id,
		AgentID:   s.agentID,
		RoomID:    req.RoomID,
		EntityID:  req.EntityID,
		Text:      req.Text,
		CreatedAt: createdAt,
	}); err != nil {
		s.logger.Printf("ingest append error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, types.IngestEventResponse{OK: true, ID: id})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.adminService.GlobalContext(r.Context()))
}
