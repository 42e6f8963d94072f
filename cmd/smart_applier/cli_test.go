package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smart-applier/internal/types"
)

const testProfile = `{
	"personal": {"name": "Ada Lovelace", "email": "ada@example.com"},
	"skills": {"languages": ["Python", "SQL"]},
	"projects": [{"title": "ETL", "description": ["Built", "pipelines"]}]
}`

const testJobsCSV = `Job Title,Company Name,Key Skills
Data Analyst,Acme,"python, sql, excel"
Platform Engineer,Initech,"docker, kubernetes"
Backend Developer,Globex,"go, docker"
`

// resetFlags restores every flag to its default so commands can run more
// than once in a test binary
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// workspace isolates the CLI from the developer's environment and returns
// a temp dir with a profile, a job corpus and a job description
func workspace(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "DATABASE_URL",
		"S3_BUCKET", "SMART_APPLIER_DATA_DIR", "PORT",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	files := map[string]string{
		"profile.json": testProfile,
		"jobs.csv":     testJobsCSV,
		"jd.txt":       "We need python experts for data work",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestCLI_EndToEnd(t *testing.T) {
	dir := workspace(t)
	base := []string{"--store", "sqlite", "--data-dir", filepath.Join(dir, "data")}
	run := func(args ...string) (string, error) {
		return execute(t, append(append([]string{}, args...), base...)...)
	}

	out, err := run("profile", "save", "-u", "ada", "-i", filepath.Join(dir, "profile.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Saved profile for ada (2 skills)")

	out, err = run("jobs", "import", "-i", filepath.Join(dir, "jobs.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 jobs")

	out, err = run("match", "-u", "ada", "-k", "2", "--record", "--json")
	require.NoError(t, err)
	var matches []types.JobMatch
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 2)
	assert.Equal(t, "Data Analyst", matches[0].Job.Title)

	out, err = run("skill-gap", "-u", "ada", "-n", "3", "--json")
	require.NoError(t, err)
	var report types.SkillGapReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"docker", "excel", "go"}, report.TopSkills)

	resumePath := filepath.Join(dir, "out", "resume.tex")
	out, err = run("tailor", "-u", "ada", "-j", filepath.Join(dir, "jd.txt"), "-t", "Data Engineer", "-o", resumePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Stored resume")
	doc, err := os.ReadFile(resumePath)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "Ada Lovelace")

	out, err = run("history", "resumes", "-u", "ada", "--json")
	require.NoError(t, err)
	var resumes []types.ResumeSummary
	require.NoError(t, json.Unmarshal([]byte(out), &resumes))
	require.Len(t, resumes, 1)
	assert.Equal(t, "Data Engineer", resumes[0].JobTitle)

	out, err = run("history", "matches", "--json")
	require.NoError(t, err)
	var records []types.MatchRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Len(t, records, 2)
}

func TestCLI_DefaultStorePersistsBetweenCommands(t *testing.T) {
	dir := workspace(t)
	dataDir := filepath.Join(dir, "xdg")
	t.Setenv("SMART_APPLIER_DATA_DIR", dataDir)

	_, err := execute(t, "profile", "save", "-u", "ada", "-i", filepath.Join(dir, "profile.json"))
	require.NoError(t, err)
	_, err = execute(t, "jobs", "import", "-i", filepath.Join(dir, "jobs.csv"))
	require.NoError(t, err)

	out, err := execute(t, "match", "-u", "ada", "-k", "2", "--json")
	require.NoError(t, err)
	var matches []types.JobMatch
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 2)
	assert.Equal(t, "Data Analyst", matches[0].Job.Title)

	assert.FileExists(t, filepath.Join(dataDir, "smart_applier.db"))
}

func TestCLI_MemoryStoreIsExplicit(t *testing.T) {
	dir := workspace(t)
	_, err := execute(t, "profile", "save", "-u", "ada", "-i", filepath.Join(dir, "profile.json"), "--store", "memory")
	require.NoError(t, err)

	_, err = execute(t, "profile", "show", "-u", "ada", "--store", "memory")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCLI_SkillGapFromJobDescription(t *testing.T) {
	dir := workspace(t)
	base := []string{"--store", "sqlite", "--data-dir", filepath.Join(dir, "data")}

	_, err := execute(t, append([]string{"profile", "save", "-u", "ada", "-i", filepath.Join(dir, "profile.json")}, base...)...)
	require.NoError(t, err)

	out, err := execute(t, append([]string{"skill-gap", "-u", "ada", "-n", "3", "--jd", filepath.Join(dir, "jd.txt")}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Job description keywords: need, python, experts, data, work")
}

func TestCLI_ConfigFile(t *testing.T) {
	dir := workspace(t)
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "store = \"sqlite\"\ndata_dir = \"" + filepath.ToSlash(filepath.Join(dir, "data")) + "\"\ntop_k = 1\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	_, err := execute(t, "--config", cfgPath, "profile", "save", "-u", "ada", "-i", filepath.Join(dir, "profile.json"))
	require.NoError(t, err)
	_, err = execute(t, "--config", cfgPath, "jobs", "import", "-i", filepath.Join(dir, "jobs.csv"))
	require.NoError(t, err)

	out, err := execute(t, "--config", cfgPath, "match", "-u", "ada", "--json")
	require.NoError(t, err)
	var matches []types.JobMatch
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	assert.Len(t, matches, 1)
}

func TestCLI_Errors(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jobs.xml"), []byte("<jobs/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"personal": {}}`), 0644))
	base := []string{"--store", "sqlite", "--data-dir", filepath.Join(dir, "data")}

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown profile",
			args:    []string{"profile", "show", "-u", "nobody"},
			wantErr: types.ErrNotFound,
		},
		{
			name:    "unsupported jobs file",
			args:    []string{"jobs", "import", "-i", filepath.Join(dir, "jobs.xml")},
			wantErr: types.ErrInvalidInput,
		},
		{
			name:    "profile fails schema",
			args:    []string{"profile", "save", "-u", "ada", "-i", filepath.Join(dir, "bad.json")},
			wantMsg: "profile does not match schema",
		},
		{
			name:    "missing required flag",
			args:    []string{"tailor", "-u", "ada"},
			wantMsg: `required flag(s) "jd" not set`,
		},
		{
			name:    "unknown store",
			args:    []string{"jobs", "list", "--store", "redis"},
			wantMsg: "unknown store",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.name != "unknown store" {
				args = append(append([]string{}, tt.args...), base...)
			}
			_, err := execute(t, args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
