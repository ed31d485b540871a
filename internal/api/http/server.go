// Package httpapi exposes a read-only admin surface for operators:
// health, roster, editor and draft statistics.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	appCollab "github.com/draftboard/draftboard/internal/application/collab"
	"github.com/draftboard/draftboard/internal/domain/session"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	collabSvc *appCollab.Service
	directory session.Directory
}

func NewServer(collabSvc *appCollab.Service, directory session.Directory) *Server {
	return &Server{
		collabSvc: collabSvc,
		directory: directory,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/roster", s.roster)
		r.Get("/editor", s.editor)
		r.Get("/draft", s.draft)
		r.Get("/directory", s.listDirectory)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) roster(w http.ResponseWriter, r *http.Request) {
	users := s.collabSvc.Roster()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"online": len(users),
		"users":  users,
	})
}

func (s *Server) editor(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"editing": s.collabSvc.Editing(),
		"editor":  s.collabSvc.Editor(),
	})
}

func (s *Server) draft(w http.ResponseWriter, r *http.Request) {
	committed, pending := s.collabSvc.DraftStats()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"committed": committed,
		"pending":   pending,
	})
}

func (s *Server) listDirectory(w http.ResponseWriter, r *http.Request) {
	users, err := s.directory.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DIRECTORY_UNAVAILABLE", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(users),
		"users": users,
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}
