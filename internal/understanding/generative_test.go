package understanding

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smart-applier/internal/llm"
	"github.com/jonathan/smart-applier/internal/types"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
	tiers    []llm.ModelTier
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

func TestNull(t *testing.T) {
	ctx := context.Background()
	var p Provider = Null{}
	assert.False(t, p.Available())

	_, err := p.ExtractKeywords(ctx, "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = p.RewriteProfile(ctx, &types.Profile{}, RewriteRequest{})
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = p.LearningResources(ctx, "go")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerative_ExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected []string
	}{
		{"wrapped json", `{"keywords": ["Python", " SQL ", ""]}`, []string{"Python", "SQL"}},
		{"fenced array", "```json\n[\"Go\", \"Docker\"]\n```", []string{"Go", "Docker"}},
		{"comma string", "Go, Kubernetes , Terraform", []string{"Go", "Kubernetes", "Terraform"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: tt.response}
			g := NewGenerative(client)
			keywords, err := g.ExtractKeywords(context.Background(), "We need Go engineers")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, keywords)
			require.Len(t, client.prompts, 1)
			assert.Contains(t, client.prompts[0], "We need Go engineers")
			assert.Equal(t, llm.TierLite, client.tiers[0])
		})
	}
}

func TestGenerative_ExtractKeywords_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewGenerative(&fakeClient{err: errors.New("timeout")}).ExtractKeywords(ctx, "x")
	var apiErr *APICallError
	assert.ErrorAs(t, err, &apiErr)

	_, err = NewGenerative(&fakeClient{response: `{"other": 1}`}).ExtractKeywords(ctx, "x")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)

	_, err = NewGenerative(nil).ExtractKeywords(ctx, "x")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerative_RewriteProfile(t *testing.T) {
	client := &fakeClient{response: "Here you go:\n{\"skills\": {\"languages\": [\"Python\"]}}\nThanks"}
	g := NewGenerative(client)
	profile := &types.Profile{Skills: map[string][]string{"languages": {"python"}}}

	out, err := g.RewriteProfile(context.Background(), profile, RewriteRequest{
		Keywords:      []string{"python", "airflow"},
		MatchedSkills: []string{"python"},
		Coverage:      50,
	})
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
	assert.Equal(t, `{"skills": {"languages": ["Python"]}}`, out)

	prompt := client.prompts[0]
	assert.Contains(t, prompt, "python, airflow")
	assert.Contains(t, prompt, "50.0%")
	assert.Contains(t, prompt, `"languages"`)
	assert.NotContains(t, prompt, "{{.")
	assert.Equal(t, llm.TierAdvanced, client.tiers[0])
}

func TestGenerative_RewriteProfile_NoObject(t *testing.T) {
	g := NewGenerative(&fakeClient{response: "I can't do that."})
	_, err := g.RewriteProfile(context.Background(), &types.Profile{}, RewriteRequest{})
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGenerative_LearningResources(t *testing.T) {
	client := &fakeClient{response: "- Docker Docs - https://docs.docker.com\n\n* Play with Docker - https://labs.play-with-docker.com\n"}
	g := NewGenerative(client)
	resources, err := g.LearningResources(context.Background(), "docker")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Docker Docs - https://docs.docker.com",
		"Play with Docker - https://labs.play-with-docker.com",
	}, resources)
	assert.Contains(t, client.prompts[0], "learning docker")
	assert.True(t, g.Available())
}
