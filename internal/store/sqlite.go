package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jonathan/smart-applier/internal/types"
)

// batchSize bounds rows per INSERT statement
const batchSize = 100

// SQLiteConfig holds database configuration options.
type SQLiteConfig struct {
	Path  string
	Debug bool
}

// SQLite is a file-backed Store using GORM over the pure-Go SQLite driver
type SQLite struct {
	db   *gorm.DB
	path string
}

// NewSQLite opens (creating if needed) the database at cfg.Path and runs
// migrations.
func NewSQLite(cfg SQLiteConfig) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)", cfg.Path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&profileRow{}, &jobRow{}, &matchRow{}, &resumeRow{}, &sessionRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLite{db: db, path: cfg.Path}, nil
}

// Path returns the database file path
func (s *SQLite) Path() string { return s.path }

// Close closes the underlying connection
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadProfile returns the stored profile, or nil
func (s *SQLite) LoadProfile(ctx context.Context, userID string) (*types.Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("load profile", err)
	}
	p, err := decodeProfile(row)
	if err != nil {
		return nil, storageError(fmt.Sprintf("decode profile %s", userID), err)
	}
	return p, nil
}

// SaveProfile upserts the profile for userID
func (s *SQLite) SaveProfile(ctx context.Context, userID string, profile *types.Profile) error {
	if userID == "" || profile == nil {
		return types.InvalidInput("user id and profile are required")
	}
	row, err := encodeProfile(userID, profile)
	if err != nil {
		return storageError("encode profile", err)
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return storageError("save profile", err)
	}
	return nil
}

// ListProfiles returns every profile ordered by user id
func (s *SQLite) ListProfiles(ctx context.Context) ([]types.ProfileSummary, error) {
	var rows []profileRow
	err := s.db.WithContext(ctx).Select("user_id", "name", "email").Order("user_id").Find(&rows).Error
	if err != nil {
		return nil, storageError("list profiles", err)
	}
	out := make([]types.ProfileSummary, len(rows))
	for i, r := range rows {
		out[i] = types.ProfileSummary{UserID: r.UserID, Name: r.Name, Email: r.Email}
	}
	return out, nil
}

// ListJobs returns jobs in insertion order
func (s *SQLite) ListJobs(ctx context.Context, limit int) ([]types.JobRecord, error) {
	q := s.db.WithContext(ctx).Order("seq")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []jobRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageError("list jobs", err)
	}
	out := make([]types.JobRecord, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

// SaveJobs appends jobs to the corpus
func (s *SQLite) SaveJobs(ctx context.Context, jobs []types.JobRecord) ([]types.JobRecord, error) {
	if len(jobs) == 0 {
		return []types.JobRecord{}, nil
	}
	now := time.Now()
	stored := make([]types.JobRecord, len(jobs))
	rows := make([]jobRow, len(jobs))
	for i, j := range jobs {
		stored[i] = withDefaults(j, now)
		rows[i] = newJobRow(stored[i])
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, batchSize).Error; err != nil {
		return nil, storageError("save jobs", err)
	}
	return stored, nil
}

// SaveMatches inserts match records
func (s *SQLite) SaveMatches(ctx context.Context, records []types.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]matchRow, len(records))
	for i, r := range records {
		rows[i] = matchRow(r)
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, batchSize).Error; err != nil {
		return storageError("save matches", err)
	}
	return nil
}

// LatestMatches returns the newest match records first
func (s *SQLite) LatestMatches(ctx context.Context, limit int) ([]types.MatchRecord, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("rowid DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []matchRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageError("list matches", err)
	}
	out := make([]types.MatchRecord, len(rows))
	for i, r := range rows {
		out[i] = types.MatchRecord(r)
	}
	return out, nil
}

// SaveResume upserts a resume
func (s *SQLite) SaveResume(ctx context.Context, resume *types.Resume) error {
	if resume == nil || resume.ID == "" {
		return types.InvalidInput("resume id is required")
	}
	row := resumeRow{
		ID:        resume.ID,
		UserID:    resume.UserID,
		JobTitle:  resume.JobTitle,
		Format:    resume.Format,
		Coverage:  resume.Coverage,
		Content:   resume.Content,
		BlobKey:   resume.BlobKey,
		CreatedAt: resume.CreatedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return storageError("save resume", err)
	}
	return nil
}

// GetResume returns the stored resume, or nil
func (s *SQLite) GetResume(ctx context.Context, id string) (*types.Resume, error) {
	var row resumeRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("get resume", err)
	}
	return row.resume(), nil
}

// ListResumes returns the newest resumes first
func (s *SQLite) ListResumes(ctx context.Context, userID string, limit int) ([]types.ResumeSummary, error) {
	q := s.db.WithContext(ctx).
		Select("id", "user_id", "job_title", "format", "coverage", "created_at").
		Order("created_at DESC").Order("rowid DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []resumeRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageError("list resumes", err)
	}
	out := make([]types.ResumeSummary, len(rows))
	for i, r := range rows {
		out[i] = summarize(r.resume())
	}
	return out, nil
}

// SaveTailoringSession inserts a session row
func (s *SQLite) SaveTailoringSession(ctx context.Context, session types.TailoringSession) error {
	row := sessionRow(session)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storageError("save tailoring session", err)
	}
	return nil
}

// ListTailoringSessions returns the newest sessions first
func (s *SQLite) ListTailoringSessions(ctx context.Context, limit int) ([]types.TailoringSession, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("rowid DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []sessionRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageError("list tailoring sessions", err)
	}
	out := make([]types.TailoringSession, len(rows))
	for i, r := range rows {
		out[i] = types.TailoringSession(r)
	}
	return out, nil
}
