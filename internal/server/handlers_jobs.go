package server

import (
	"bytes"
	"mime"
	"net/http"

	"github.com/jonathan/smart-applier/internal/ingestion"
	"github.com/jonathan/smart-applier/internal/types"
)

// handleListJobs lists the stored corpus
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	jobs, err := s.svc.Store().ListJobs(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []types.JobRecord{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleImportJobs appends jobs given as a JSON array or, with a text/csv
// content type, as a CSV table
func (s *Server) handleImportJobs(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var jobs []types.JobRecord
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" {
		jobs, err = ingestion.ReadJobsCSV(bytes.NewReader(body))
	} else {
		jobs, err = ingestion.ReadJobsJSON(body)
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	saved, err := s.svc.ImportJobs(r.Context(), jobs)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"jobs":  saved,
		"count": len(saved),
	})
}
