package server

import (
	"net/http"

	"github.com/jonathan/smart-applier/internal/ingestion"
	"github.com/jonathan/smart-applier/internal/pipeline"
	"github.com/jonathan/smart-applier/internal/types"
)

// MatchRequest is the body of POST /profiles/{id}/matches
type MatchRequest struct {
	TopK   int  `json:"top_k" validate:"gte=0,lte=1000"`
	Record bool `json:"record"`
}

// SkillGapRequest is the body of POST /profiles/{id}/skill-gap
type SkillGapRequest struct {
	TopN      int      `json:"top_n" validate:"gte=0,lte=1000"`
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,gte=-1,lte=1"`
	Recommend bool     `json:"recommend"`
}

// JDSkillGapRequest is the body of POST /profiles/{id}/skill-gap/jd
type JDSkillGapRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	TopN           int    `json:"top_n" validate:"gte=0,lte=1000"`
}

// TailorRequest is the body of POST /profiles/{id}/tailor
type TailorRequest struct {
	JobDescription string   `json:"job_description" validate:"required"`
	JobTitle       string   `json:"job_title,omitempty" validate:"max=200"`
	Threshold      *float64 `json:"threshold,omitempty" validate:"omitempty,gte=-1,lte=1"`
}

// TailorResponse reports a tailoring run and the stored resume
type TailorResponse struct {
	*types.TailorResult
	ResumeID string `json:"resume_id,omitempty"`
}

// RunRequest is the body of POST /profiles/{id}/run
type RunRequest struct {
	TopK           int    `json:"top_k" validate:"gte=0,lte=1000"`
	TopN           int    `json:"top_n" validate:"gte=0,lte=1000"`
	JobDescription string `json:"job_description,omitempty"`
	Record         bool   `json:"record"`
	Recommend      bool   `json:"recommend"`
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// handleMatch ranks the corpus against a profile
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	matches, err := s.svc.Match(r.Context(), r.PathValue("id"), orDefault(req.TopK, s.cfg.DefaultTopK), req.Record)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// handleSkillGap analyses a profile against the stored corpus
func (s *Server) handleSkillGap(w http.ResponseWriter, r *http.Request) {
	var req SkillGapRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	report, err := s.svc.SkillGap(r.Context(), r.PathValue("id"), pipeline.GapOptions{
		TopN:      orDefault(req.TopN, s.cfg.DefaultTopN),
		Threshold: req.Threshold,
		Recommend: req.Recommend,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleJDSkillGap analyses a profile against a pasted job description
func (s *Server) handleJDSkillGap(w http.ResponseWriter, r *http.Request) {
	var req JDSkillGapRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	jd, err := ingestion.JobDescriptionText(req.JobDescription)
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "job_description", Message: err.Error()})
		return
	}
	gap, err := s.svc.JDSkillGap(r.Context(), r.PathValue("id"), jd, orDefault(req.TopN, s.cfg.DefaultTopN))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, gap)
}

// handleTailor tailors a profile to a job description and stores the resume
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req TailorRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	jd, err := ingestion.JobDescriptionText(req.JobDescription)
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "job_description", Message: err.Error()})
		return
	}
	result, resume, err := s.svc.Tailor(r.Context(), r.PathValue("id"), jd, pipeline.TailorOptions{
		Threshold: req.Threshold,
		JobTitle:  req.JobTitle,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp := TailorResponse{TailorResult: result}
	if resume != nil {
		resp.ResumeID = resume.ID
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRun runs match, skill gap and tailoring in one request
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	jd := req.JobDescription
	if jd != "" {
		var err error
		if jd, err = ingestion.JobDescriptionText(jd); err != nil {
			s.handleError(w, r, &ErrValidation{Field: "job_description", Message: err.Error()})
			return
		}
	}
	result, err := s.svc.Run(r.Context(), pipeline.RunOptions{
		UserID:         r.PathValue("id"),
		TopK:           orDefault(req.TopK, s.cfg.DefaultTopK),
		TopN:           orDefault(req.TopN, s.cfg.DefaultTopN),
		JobDescription: jd,
		Record:         req.Record,
		Recommend:      req.Recommend,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
