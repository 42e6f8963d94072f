package skillgap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smart-applier/internal/embedding"
	"github.com/jonathan/smart-applier/internal/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashProvider(t *testing.T) embedding.Provider {
	t.Helper()
	p, err := embedding.NewHash(0)
	require.NoError(t, err)
	return p
}

func profileWith(skills ...string) *types.Profile {
	return &types.Profile{Skills: map[string][]string{"technical": skills}}
}

// tableProvider returns fixed vectors by text, and a far-away vector otherwise
type tableProvider struct {
	vectors map[string][]float32
}

func (p tableProvider) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := p.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, -1}, nil
}

func (p tableProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = p.Embed(ctx, t)
	}
	return out, nil
}

func (tableProvider) Dimension() int { return 2 }
func (tableProvider) Model() string  { return "table" }

func TestFindMissingSkills_PythonCoveredJavaMissing(t *testing.T) {
	ctx := context.Background()
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("python"),
		[]types.JobRecord{{Skills: "python"}}, WithLogger(quietLogger()))
	require.NoError(t, err)

	missing, err := a.FindMissingSkills(ctx, []string{"python", "java"}, 0.5)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "java", missing[0].Term)
	assert.Less(t, missing[0].Similarity, 0.5)
}

func TestFindMissingSkills_VerbatimNeverMissing(t *testing.T) {
	ctx := context.Background()
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("Python", "SQL"),
		[]types.JobRecord{{Skills: "x"}}, WithLogger(quietLogger()))
	require.NoError(t, err)

	missing, err := a.FindMissingSkills(ctx, []string{" python", "sql"}, 1.0)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFindMissingSkills_EmptyInput(t *testing.T) {
	ctx := context.Background()
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("python"),
		[]types.JobRecord{{Skills: "python"}}, WithLogger(quietLogger()))
	require.NoError(t, err)

	missing, err := a.FindMissingSkills(ctx, nil, 0.5)
	require.NoError(t, err)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestFindMissingSkills_ThresholdBoundary(t *testing.T) {
	ctx := context.Background()
	provider := tableProvider{vectors: map[string][]float32{
		"python": {1, 0},
		"java":   {3, 4},
	}}
	a, err := NewAnalyzer(ctx, provider, profileWith("python"),
		[]types.JobRecord{{Skills: "java"}}, WithLogger(quietLogger()))
	require.NoError(t, err)

	atThreshold, err := a.FindMissingSkills(ctx, []string{"java"}, 0.6)
	require.NoError(t, err)
	assert.Empty(t, atThreshold, "similarity equal to threshold is not missing")

	justAbove, err := a.FindMissingSkills(ctx, []string{"java"}, math.Nextafter(0.6, 1))
	require.NoError(t, err)
	require.Len(t, justAbove, 1)
	assert.Equal(t, types.SkillSimilarity{Term: "java", Similarity: 0.6}, justAbove[0])
}

func TestTopMissingSkills_MostFrequentFirst(t *testing.T) {
	ctx := context.Background()
	jobs := []types.JobRecord{
		{Title: "a", Skills: "docker, python"},
		{Title: "b", Skills: "Docker"},
		{Title: "c", Skills: "kubernetes"},
	}
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("python"), jobs, WithLogger(quietLogger()))
	require.NoError(t, err)

	top, err := a.TopMissingSkills(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"docker"}, top)

	report, err := a.MissingSkillReport(ctx, 5)
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "docker", report[0].Term)
	assert.Equal(t, 2, report[0].Occurrences)
	assert.Equal(t, "kubernetes", report[1].Term)
	assert.Equal(t, 1, report[1].Occurrences)
}

func TestMissingSkillReport_TermCountedOncePerJob(t *testing.T) {
	ctx := context.Background()
	jobs := []types.JobRecord{{Skills: "docker, Docker, docker"}}
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("python"), jobs, WithLogger(quietLogger()))
	require.NoError(t, err)

	report, err := a.MissingSkillReport(ctx, 5)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, 1, report[0].Occurrences)
}

func TestMissingSkillReport_NoSkillsInCorpus(t *testing.T) {
	ctx := context.Background()
	jobs := []types.JobRecord{{Title: "a", Summary: "great team"}, {Title: "b"}}
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("python"), jobs, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = a.MissingSkillReport(ctx, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNoSkillColumn)
	assert.Equal(t, types.StageGapAnalysis, types.StageOf(err))
}

func TestMissingSkillReport_InvalidTopN(t *testing.T) {
	ctx := context.Background()
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("python"),
		[]types.JobRecord{{Skills: "go"}}, WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = a.MissingSkillReport(ctx, 0)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestMissingSkillReport_UsesConfiguredThreshold(t *testing.T) {
	ctx := context.Background()
	provider := tableProvider{vectors: map[string][]float32{
		"python": {1, 0},
		"java":   {3, 4},
	}}
	jobs := []types.JobRecord{{Skills: "java"}}

	strict, err := NewAnalyzer(ctx, provider, profileWith("python"), jobs,
		WithThreshold(0.7), WithLogger(quietLogger()))
	require.NoError(t, err)
	report, err := strict.MissingSkillReport(ctx, 3)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, 0.6, report[0].MeanSimilarity)
	assert.Equal(t, 0.4, report[0].MeanDeficit)

	loose, err := NewAnalyzer(ctx, provider, profileWith("python"), jobs,
		WithThreshold(0.6), WithLogger(quietLogger()))
	require.NoError(t, err)
	report, err = loose.MissingSkillReport(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestNewAnalyzer_InvalidInput(t *testing.T) {
	ctx := context.Background()
	jobs := []types.JobRecord{{Skills: "go"}}

	tests := []struct {
		name    string
		profile *types.Profile
		jobs    []types.JobRecord
	}{
		{"nil profile", nil, jobs},
		{"no skills", &types.Profile{}, jobs},
		{"blank skills", profileWith("  "), jobs},
		{"no jobs", profileWith("python"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalyzer(ctx, hashProvider(t), tt.profile, tt.jobs)
			assert.ErrorIs(t, err, types.ErrInvalidInput)
		})
	}
}

func TestAnalyzer_UserSkillsDeduplicated(t *testing.T) {
	ctx := context.Background()
	p := &types.Profile{Skills: map[string][]string{
		"languages": {"Python", "Golang"},
		"data":      {"python ", "SQL"},
	}}
	a, err := NewAnalyzer(ctx, hashProvider(t), p, []types.JobRecord{{Skills: "go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "sql", "golang"}, a.UserSkills())
	assert.Equal(t, DefaultThreshold, a.Threshold())
}

type countingProvider struct {
	embedding.Provider
	batches int
}

func (c *countingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batches++
	return c.Provider.EmbedBatch(ctx, texts)
}

func TestAnalyzer_UserSkillsEmbeddedOnce(t *testing.T) {
	ctx := context.Background()
	provider := &countingProvider{Provider: hashProvider(t)}
	a, err := NewAnalyzer(ctx, provider, profileWith("python", "sql"),
		[]types.JobRecord{{Skills: "go"}}, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, 1, provider.batches)

	_, err = a.FindMissingSkills(ctx, []string{"java"}, 0.5)
	require.NoError(t, err)
	_, err = a.FindMissingSkills(ctx, []string{"rust"}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3, provider.batches)
}

func TestRankMissingSkills(t *testing.T) {
	ranked := RankMissingSkills(map[string][]float64{
		"kubernetes": {0.1},
		"docker":     {0.2, 0.3},
		"terraform":  {0.05},
		"helm":       {0.1},
		"empty":      {},
	})

	terms := make([]string, len(ranked))
	for i, r := range ranked {
		terms[i] = r.Term
	}
	assert.Equal(t, []string{"docker", "terraform", "helm", "kubernetes"}, terms)
	assert.Equal(t, 2, ranked[0].Occurrences)
	assert.Equal(t, 0.25, ranked[0].MeanSimilarity)
	assert.Equal(t, 0.75, ranked[0].MeanDeficit)
}

func TestRankMissingSkills_StableAcrossRuns(t *testing.T) {
	scores := map[string][]float64{"a": {0.3}, "b": {0.3}, "c": {0.3}, "d": {0.3}}
	first := RankMissingSkills(scores)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, RankMissingSkills(scores))
	}
}

type fakeAdvisor struct {
	available bool
	resources map[string][]string
	fail      map[string]bool
}

func (f fakeAdvisor) Available() bool { return f.available }

func (f fakeAdvisor) LearningResources(_ context.Context, skill string) ([]string, error) {
	if f.fail[skill] {
		return nil, errors.New("quota exceeded")
	}
	return f.resources[skill], nil
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable advisor uses fallback", func(t *testing.T) {
		recs := Recommend(ctx, []string{"docker"}, fakeAdvisor{}, quietLogger())
		require.Len(t, recs, 1)
		assert.True(t, recs[0].Fallback)
		assert.Equal(t, []string{
			"Search 'free docker course' on Coursera or YouTube.",
			"Check Kaggle Learn for docker tutorials.",
		}, recs[0].Resources)
	})

	t.Run("nil advisor uses fallback", func(t *testing.T) {
		recs := Recommend(ctx, []string{"go"}, nil, nil)
		require.Len(t, recs, 1)
		assert.True(t, recs[0].Fallback)
	})

	t.Run("per skill error yields empty list", func(t *testing.T) {
		advisor := fakeAdvisor{
			available: true,
			resources: map[string][]string{"docker": {"a", "b", "c", "d"}},
			fail:      map[string]bool{"helm": true},
		}
		recs := Recommend(ctx, []string{"docker", "helm"}, advisor, quietLogger())
		require.Len(t, recs, 2)
		assert.Equal(t, []string{"a", "b", "c"}, recs[0].Resources)
		assert.False(t, recs[0].Fallback)
		assert.Empty(t, recs[1].Resources)
		assert.NotNil(t, recs[1].Resources)
	})
}

func TestAnalyzer_Report(t *testing.T) {
	ctx := context.Background()
	jobs := []types.JobRecord{{Skills: "docker"}, {Skills: "docker, helm"}}
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("python"), jobs, WithLogger(quietLogger()))
	require.NoError(t, err)

	report, err := a.Report(ctx, 1, fakeAdvisor{})
	require.NoError(t, err)
	assert.Equal(t, []string{"docker"}, report.TopSkills)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "docker", report.Recommendations[0].Skill)

	bare, err := a.Report(ctx, 2, nil)
	require.NoError(t, err)
	assert.Nil(t, bare.Recommendations)
}

func TestAnalyzer_AliasesReportedInJobWording(t *testing.T) {
	ctx := context.Background()
	jobs := []types.JobRecord{
		{Title: "SRE", Skills: "K8s, Terraform"},
		{Title: "Platform", Skills: "kubernetes, terraform"},
	}
	a, err := NewAnalyzer(ctx, hashProvider(t), profileWith("Kubernetes"), jobs, WithLogger(quietLogger()))
	require.NoError(t, err)

	missing, err := a.FindMissingSkills(ctx, []string{"K8s"}, 0.5)
	require.NoError(t, err)
	assert.Empty(t, missing, "an alias of a user skill is covered")

	report, err := a.MissingSkillReport(ctx, 5)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "terraform", report[0].Term)
	assert.Equal(t, 2, report[0].Occurrences)

	gapped, err := NewAnalyzer(ctx, hashProvider(t), profileWith("python"), jobs, WithLogger(quietLogger()))
	require.NoError(t, err)
	terms, err := gapped.TopMissingSkills(ctx, 5)
	require.NoError(t, err)
	assert.Contains(t, terms, "k8s")
	assert.NotContains(t, terms, "kubernetes")
}
