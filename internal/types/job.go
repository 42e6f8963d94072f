package types

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// JobRecord is one job posting. ID is assigned at persistence time and may be
// empty for in-memory corpora.
type JobRecord struct {
	ID         string    `json:"id,omitempty"`
	Title      string    `json:"title" validate:"required"`
	Company    string    `json:"company,omitempty"`
	Location   string    `json:"location,omitempty"`
	Experience string    `json:"experience,omitempty"`
	Skills     string    `json:"skills,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	URL        string    `json:"url,omitempty" validate:"omitempty,url"`
	PostedOn   string    `json:"posted_on,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate validates the job record using the validator.
func (j *JobRecord) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}

// BestText returns the most descriptive text for embedding: the skills field
// when present, else the summary, else "".
func (j *JobRecord) BestText() string {
	if s := strings.TrimSpace(j.Skills); s != "" {
		return s
	}
	return strings.TrimSpace(j.Summary)
}

// column aliases, matched case-insensitively against header names
var jobColumns = map[string][]string{
	"id":         {"id", "job_id", "job id"},
	"title":      {"title", "job title", "job_title", "role"},
	"company":    {"company", "company name", "company_name"},
	"location":   {"location", "locations"},
	"experience": {"experience", "exp"},
	"summary":    {"summary", "job summary", "description", "job description"},
	"url":        {"url", "link", "job link"},
	"posted_on":  {"posted_on", "posted on", "posted", "date"},
}

// SkillColumn returns the index of the first header whose name contains
// "skill", case-insensitively, or -1.
func SkillColumn(header []string) int {
	for i, name := range header {
		if strings.Contains(strings.ToLower(name), "skill") {
			return i
		}
	}
	return -1
}

// JobsFromRows maps tabular rows with loosely named columns onto job records.
// Rows shorter than the header are padded with empty values. It fails with
// ErrNoSkillColumn when no header names a skills field, and with
// ErrInvalidInput when the header is empty.
func JobsFromRows(header []string, rows [][]string) ([]JobRecord, error) {
	if len(header) == 0 {
		return nil, InvalidInput("job table has no header")
	}
	skillIdx := SkillColumn(header)
	if skillIdx < 0 {
		return nil, NewStageError(StageInput, ErrNoSkillColumn,
			"no column name contains \"skill\"", nil)
	}

	index := make(map[string]int, len(jobColumns))
	for field, aliases := range jobColumns {
		index[field] = -1
		for i, name := range header {
			if containsFold(aliases, strings.TrimSpace(name)) {
				index[field] = i
				break
			}
		}
	}

	jobs := make([]JobRecord, 0, len(rows))
	for _, row := range rows {
		get := func(i int) string {
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		jobs = append(jobs, JobRecord{
			ID:         get(index["id"]),
			Title:      get(index["title"]),
			Company:    get(index["company"]),
			Location:   get(index["location"]),
			Experience: get(index["experience"]),
			Skills:     get(skillIdx),
			Summary:    get(index["summary"]),
			URL:        get(index["url"]),
			PostedOn:   get(index["posted_on"]),
		})
	}
	return jobs, nil
}

// HeaderFromObjects returns the sorted union of keys across objects, for
// feeding JSON job lists through JobsFromRows.
func HeaderFromObjects(objects []map[string]string) []string {
	seen := make(map[string]bool)
	var header []string
	for _, obj := range objects {
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	sort.Strings(header)
	return header
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
