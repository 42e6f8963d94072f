package store

import (
	"encoding/json"
	"time"

	"github.com/jonathan/smart-applier/internal/types"
)

// profileRow stores a profile as JSON alongside its listing columns
type profileRow struct {
	UserID    string    `gorm:"primaryKey;size:128"`
	Name      string    `gorm:"size:256"`
	Email     string    `gorm:"size:256;index"`
	Data      string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM.
func (profileRow) TableName() string { return "profiles" }

// jobRow is one scraped or imported job. Seq keeps insertion order.
type jobRow struct {
	Seq        uint   `gorm:"primaryKey;autoIncrement"`
	ID         string `gorm:"uniqueIndex;size:64"`
	Title      string `gorm:"size:512"`
	Company    string `gorm:"size:256"`
	Location   string `gorm:"size:256"`
	Experience string `gorm:"size:128"`
	Skills     string `gorm:"type:text"`
	Summary    string `gorm:"type:text"`
	URL        string `gorm:"size:1024"`
	PostedOn   string `gorm:"size:64"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM.
func (jobRow) TableName() string { return "scraped_jobs" }

func (r jobRow) record() types.JobRecord {
	return types.JobRecord{
		ID:         r.ID,
		Title:      r.Title,
		Company:    r.Company,
		Location:   r.Location,
		Experience: r.Experience,
		Skills:     r.Skills,
		Summary:    r.Summary,
		URL:        r.URL,
		PostedOn:   r.PostedOn,
		CreatedAt:  r.CreatedAt,
	}
}

func newJobRow(j types.JobRecord) jobRow {
	return jobRow{
		ID:         j.ID,
		Title:      j.Title,
		Company:    j.Company,
		Location:   j.Location,
		Experience: j.Experience,
		Skills:     j.Skills,
		Summary:    j.Summary,
		URL:        j.URL,
		PostedOn:   j.PostedOn,
		CreatedAt:  j.CreatedAt,
	}
}

// matchRow is a persisted match result
type matchRow struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"size:128;index"`
	JobID     string    `gorm:"size:64"`
	JobTitle  string    `gorm:"size:512"`
	Company   string    `gorm:"size:256"`
	Score     float64   `gorm:"column:match_score"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the table name for GORM.
func (matchRow) TableName() string { return "job_matches" }

// resumeRow is a rendered resume. Content is empty when the document lives
// in blob storage under BlobKey.
type resumeRow struct {
	ID        string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"size:128;index"`
	JobTitle  string `gorm:"size:512"`
	Format    string `gorm:"size:16"`
	Coverage  float64
	Content   []byte
	BlobKey   string    `gorm:"size:512"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the table name for GORM.
func (resumeRow) TableName() string { return "resumes" }

func (r resumeRow) resume() *types.Resume {
	return &types.Resume{
		ID:        r.ID,
		UserID:    r.UserID,
		JobTitle:  r.JobTitle,
		Format:    r.Format,
		Coverage:  r.Coverage,
		Content:   r.Content,
		BlobKey:   r.BlobKey,
		CreatedAt: r.CreatedAt,
	}
}

// sessionRow logs one tailoring run
type sessionRow struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserEmail string    `gorm:"size:256"`
	Coverage  float64   `gorm:"column:coverage_score"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the table name for GORM.
func (sessionRow) TableName() string { return "tailored_sessions" }

func encodeProfile(userID string, p *types.Profile) (profileRow, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return profileRow{}, err
	}
	return profileRow{
		UserID: userID,
		Name:   p.Personal.Name,
		Email:  p.Personal.Email,
		Data:   string(data),
	}, nil
}

func decodeProfile(row profileRow) (*types.Profile, error) {
	var p types.Profile
	if err := json.Unmarshal([]byte(row.Data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
