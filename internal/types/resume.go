package types

import "time"

// TailorResult is the outcome of tailoring a profile to a job description.
// The fallback flags record which collaborator steps degraded.
type TailorResult struct {
	Profile         *Profile `json:"profile"`
	Keywords        []string `json:"keywords"`
	MatchedSkills   []string `json:"matched_skills"`
	Coverage        float64  `json:"coverage"`
	KeywordFallback bool     `json:"keyword_fallback"`
	RewriteFallback bool     `json:"rewrite_fallback"`
	Document        []byte   `json:"-"`
	DocumentFormat  string   `json:"document_format,omitempty"`
}

// Resume is a rendered, persisted resume document
type Resume struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	JobTitle  string    `json:"job_title,omitempty"`
	Format    string    `json:"format"`
	Coverage  float64   `json:"coverage"`
	Content   []byte    `json:"-"`
	BlobKey   string    `json:"blob_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ResumeSummary is the listing view of a stored resume
type ResumeSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	JobTitle  string    `json:"job_title,omitempty"`
	Format    string    `json:"format"`
	Coverage  float64   `json:"coverage"`
	CreatedAt time.Time `json:"created_at"`
}

// TailoringSession logs a single tailoring run
type TailoringSession struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	Coverage  float64   `json:"coverage"`
	CreatedAt time.Time `json:"created_at"`
}
