package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/smart-applier/internal/schemas"
	"github.com/jonathan/smart-applier/internal/types"
)

// handleListProfiles lists stored profiles
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.svc.Store().ListProfiles(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []types.ProfileSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// handleGetProfile returns a stored profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// handlePutProfile creates or replaces a profile. The body is checked
// against the profile schema before decoding.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := schemas.ValidateProfileJSON(string(body)); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}

	var p types.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}

	userID := r.PathValue("id")
	if err := s.svc.SaveProfile(r.Context(), userID, &p); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"profile": &p,
	})
}
