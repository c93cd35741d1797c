package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aretw0/ainotes/pkg/core"
)

type createRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"omitempty,dive,required"`
}

type updateRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Summary *string   `json:"summary"`
	Tags    *[]string `json:"tags"`
}

type themeRequest struct {
	Dark *bool `json:"dark" validate:"required"`
}

type themeResponse struct {
	Dark bool `json:"dark"`
}

type errorState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error"`
}

// decode reads a JSON body into v and validates it. It writes the 400
// response itself and reports whether the handler may continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, err := core.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes := core.Query(s.store.Notes(), core.Filter{Term: q.Get("q"), TagPattern: q.Get("tag")}, key)
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.store.Create(r.Context(), core.Draft{Title: req.Title, Content: req.Content, Tags: req.Tags})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	n, ok := s.store.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !s.decode(w, r, &req) {
		return
	}
	patch := core.Patch{Title: req.Title, Content: req.Content, Summary: req.Summary, Tags: req.Tags}
	n, err := s.store.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) summarizeNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Summarize(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if statusFor(err) != http.StatusNotFound {
			s.metrics.Summaries.WithLabelValues("error").Inc()
		}
		s.fail(w, err)
		return
	}
	s.metrics.Summaries.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Dark: s.store.Theme()})
}

func (s *Server) setTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.store.SetTheme(r.Context(), *req.Dark); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Dark: *req.Dark})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.ComputeStats(s.store.Notes()))
}

func (s *Server) getError(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, errorState{Loading: snap.Loading, Error: snap.Error})
}

func (s *Server) clearError(w http.ResponseWriter, r *http.Request) {
	s.store.ClearError()
	w.WriteHeader(http.StatusNoContent)
}
