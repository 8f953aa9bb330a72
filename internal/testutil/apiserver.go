package testutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/nibzard/taskboard/internal/api"
)

// APIServer serves the task API over HTTP from a FakeBackend. Injected
// backend errors are answered with 500.
type APIServer struct {
	*httptest.Server
	Backend *FakeBackend
}

// NewAPIServer starts a server; callers must Close it.
func NewAPIServer(backend *FakeBackend) *APIServer {
	s := &APIServer{Backend: backend}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks", s.list)
	mux.HandleFunc("POST /api/tasks", s.create)
	mux.HandleFunc("PUT /api/tasks/{id}", s.update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.remove)
	mux.HandleFunc("GET /api/stats", s.stats)
	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL is the API root, ending in /api.
func (s *APIServer) BaseURL() string {
	return s.URL + "/api"
}

func (s *APIServer) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.Backend.ListTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *APIServer) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, errors.New("title is required"))
		return
	}
	created, err := s.Backend.CreateTask(r.Context(), body.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"task": created})
}

func (s *APIServer) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	var patch api.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Backend.UpdateTask(r.Context(), id, patch); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *APIServer) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := s.Backend.DeleteTask(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *APIServer) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Backend.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
