package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/smart-applier/internal/store"
	"github.com/jonathan/smart-applier/internal/types"
)

// handleListMatches lists the most recent recorded matches
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	matches, err := s.svc.Store().LatestMatches(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if matches == nil {
		matches = []types.MatchRecord{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// handleListResumes lists stored resumes, optionally for one user
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resumes, err := s.svc.Store().ListResumes(r.Context(), r.URL.Query().Get("user"), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if resumes == nil {
		resumes = []types.ResumeSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumes": resumes,
		"count":   len(resumes),
	})
}

// handleGetResume downloads a stored resume document
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	resume, err := s.svc.Store().GetResume(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if resume == nil {
		s.handleError(w, r, types.NewStageError(types.StageStorage, types.ErrNotFound,
			fmt.Sprintf("no resume %q", id), nil))
		return
	}

	w.Header().Set("Content-Type", store.ContentType(resume.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "resume-"+resume.ID+"."+resume.Format))
	w.Header().Set("Content-Length", strconv.Itoa(len(resume.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resume.Content); err != nil {
		s.logger.Warn("failed to write resume", "id", id, "error", err)
	}
}

// handleListSessions lists logged tailoring sessions
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	sessions, err := s.svc.Store().ListTailoringSessions(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []types.TailoringSession{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}
