package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jobcopilot/autofill/internal/api"
	"github.com/jobcopilot/autofill/internal/config"
	"github.com/jobcopilot/autofill/profile"
)

// localDevToken is the static bearer token /auth/login hands out. The
// service is a local companion process, not a multi-user deployment.
const localDevToken = "local-dev-token"

// Server is the backend HTTP service the autofill engine talks to.
type Server struct {
	cfg      *config.Config
	profiles *ProfileStore
	store    *Store
	claude   *ClaudeAnswerer
	router   chi.Router
}

// New assembles a Server from its configuration, opening the profile
// file and the SQLite store.
func New(cfg *config.Config) (*Server, error) {
	profiles, err := OpenProfileStore(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	store, err := OpenStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, profiles: profiles, store: store}
	if cfg.AnthropicAPIKey != "" {
		s.claude = NewClaudeAnswerer(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/auth/login", s.handleLogin)
	r.Get("/profile", s.handleGetProfile)
	r.Put("/profile", s.handlePutProfile)
	r.Post("/documents/resume", s.handleUploadResume)
	r.Post("/events/audit", s.handleAudit)
	r.Post("/jobs/save", s.handleJobEvent("saved"))
	r.Get("/jobs/save", s.handleListJobs("saved"))
	r.Post("/jobs/applied", s.handleJobEvent("applied"))
	r.Get("/jobs/applied", s.handleListJobs("applied"))
	r.Post("/ai/answer-fields", s.handleAnswerFields)

	s.router = r
	return s, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's stores.
func (s *Server) Close() error {
	return s.store.Close()
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then
// shuts it down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("backend listening", "addr", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"token":      localDevToken,
		"token_type": "bearer",
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.profiles.Get())
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile JSON")
		return
	}
	if err := s.profiles.Put(p); err != nil {
		slog.Error("persist profile", "error", err)
		writeError(w, http.StatusInternalServerError, "could not persist profile")
		return
	}
	writeJSON(w, http.StatusOK, s.profiles.Get())
}

// handleUploadResume stubs resume storage: it accepts the upload body,
// discards it and returns a signed-URL-shaped pointer.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()
	id := uuid.NewString()
	writeJSON(w, http.StatusOK, map[string]string{
		"file_id":    id,
		"signed_url": fmt.Sprintf("%s/%s.pdf", s.cfg.SignedURLBase, id),
	})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var rec AuditRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid audit event")
		return
	}
	if err := s.store.InsertAudit(r.Context(), &rec); err != nil {
		slog.Error("store audit event", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store event")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": rec.ID})
}

func (s *Server) handleJobEvent(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev api.JobEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeError(w, http.StatusBadRequest, "invalid job event")
			return
		}
		rec := &JobRecord{
			Site:          ev.Site,
			JobURL:        ev.JobURL,
			Title:         ev.Title,
			Company:       ev.Company,
			ExternalJobID: ev.ExternalJobID,
			Metadata:      ev.Metadata,
		}
		if err := s.store.InsertJob(r.Context(), rec, status); err != nil {
			slog.Error("store job event", "status", status, "error", err)
			writeError(w, http.StatusInternalServerError, "could not store event")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": rec.ID, "status": status})
	}
}

func (s *Server) handleListJobs(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.store.ListJobs(r.Context(), status)
		if err != nil {
			slog.Error("list job events", "status", status, "error", err)
			writeError(w, http.StatusInternalServerError, "could not list events")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": items,
			"count": len(items),
		})
	}
}

// handleAnswerFields answers unresolved fields, through the LLM when an
// API key is configured and falling back to the deterministic profile
// answerer when the model call fails.
func (s *Server) handleAnswerFields(w http.ResponseWriter, r *http.Request) {
	var req api.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid answer request")
		return
	}
	prof := s.profiles.Get()

	if s.claude != nil {
		resp, err := s.claude.Answer(r.Context(), &req, prof)
		if err == nil {
			writeJSON(w, http.StatusOK, resp)
			return
		}
		slog.Warn("model answering failed, using heuristic answerer", "error", err)
	}
	writeJSON(w, http.StatusOK, answerHeuristically(&req, prof))
}
