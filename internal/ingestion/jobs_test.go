package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smart-applier/internal/types"
)

func TestReadJobsCSV(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "jobs.csv"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	jobs, err := ReadJobsCSV(f)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Data Analyst", jobs[0].Title)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "python, sql, excel", jobs[0].Skills)
	assert.Equal(t, "Analyse sales data", jobs[0].Summary)
	assert.Equal(t, "Berlin", jobs[1].Location)
}

func TestReadJobsCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", types.ErrInvalidInput},
		{"no skill column", "title,summary\nA,B\n", types.ErrNoSkillColumn},
		{"unterminated quote", "title,skills\n\"A,B\n", types.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJobsCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadJobsCSV_ByteOrderMark(t *testing.T) {
	jobs, err := ReadJobsCSV(strings.NewReader("\ufefftitle,skills\nA,go\n"))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "A", jobs[0].Title)
}

func TestReadJobsJSON(t *testing.T) {
	data := []byte(`[
		{"Title": "Data Analyst", "Key Skills": "python, sql", "id": 17},
		{"Title": "Engineer", "skills": null, "Job Summary": "Build APIs"}
	]`)

	jobs, err := ReadJobsJSON(data)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "17", jobs[0].ID)
	assert.Equal(t, "python, sql", jobs[0].Skills)
	assert.Equal(t, "Engineer", jobs[1].Title)
	assert.Equal(t, "Build APIs", jobs[1].Summary)
}

func TestReadJobsJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not an array", `{"title": "x"}`, types.ErrInvalidInput},
		{"nested object", `[{"title": {"a": 1}}]`, types.ErrInvalidInput},
		{"no skill key", `[{"title": "x"}]`, types.ErrNoSkillColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJobsJSON([]byte(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadJobsJSON_EmptyList(t *testing.T) {
	jobs, err := ReadJobsJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestReadJobsFile(t *testing.T) {
	jobs, meta, err := ReadJobsFile(filepath.Join("testdata", "jobs.csv"))
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, FormatCSV, meta.Format)

	_, _, err = ReadJobsFile(filepath.Join(t.TempDir(), "jobs.xlsx"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, _, err = ReadJobsFile(path)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}
