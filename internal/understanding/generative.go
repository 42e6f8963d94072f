package understanding

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/smart-applier/internal/llm"
	"github.com/jonathan/smart-applier/internal/prompts"
	"github.com/jonathan/smart-applier/internal/types"
)

const promptFile = "understanding.json"

// Generative implements Provider on top of an llm.Client
type Generative struct {
	client llm.Client
}

// NewGenerative creates a provider backed by client
func NewGenerative(client llm.Client) *Generative {
	return &Generative{client: client}
}

// Available reports whether a client is configured
func (g *Generative) Available() bool { return g.client != nil }

// ExtractKeywords asks the model for the job's skill keywords. A plain
// comma-separated reply is accepted as well as the requested JSON.
func (g *Generative) ExtractKeywords(ctx context.Context, text string) ([]string, error) {
	if g.client == nil {
		return nil, ErrUnavailable
	}
	system, err := prompts.Get(promptFile, "extract-keywords-system")
	if err != nil {
		return nil, err
	}
	prompt := llm.BuildExtractionPrompt(llm.JobKeywordsSchema(system), text)

	resp, err := g.client.GenerateJSON(ctx, prompt, llm.TierFor(llm.TaskKeywords))
	if err != nil {
		return nil, &APICallError{Message: "keyword extraction", Cause: err}
	}
	return parseKeywords(resp)
}

// RewriteProfile asks the model to rewrite profile for the target keywords
func (g *Generative) RewriteProfile(ctx context.Context, profile *types.Profile, req RewriteRequest) (string, error) {
	if g.client == nil {
		return "", ErrUnavailable
	}
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile: %w", err)
	}
	prompt, err := prompts.Render(promptFile, "rewrite-profile", map[string]string{
		"Keywords":      strings.Join(req.Keywords, ", "),
		"MatchedSkills": strings.Join(req.MatchedSkills, ", "),
		"Coverage":      strconv.FormatFloat(req.Coverage, 'f', 1, 64),
		"Profile":       string(profileJSON),
	})
	if err != nil {
		return "", err
	}

	resp, err := g.client.GenerateJSON(ctx, prompt, llm.TierFor(llm.TaskRewrite))
	if err != nil {
		return "", &APICallError{Message: "profile rewrite", Cause: err}
	}
	obj := llm.ExtractJSONObject(resp)
	if obj == "" {
		return "", &ParseError{Message: "no JSON object in rewrite response"}
	}
	return obj, nil
}

// LearningResources asks the model for up to three resources, one per line
func (g *Generative) LearningResources(ctx context.Context, skill string) ([]string, error) {
	if g.client == nil {
		return nil, ErrUnavailable
	}
	prompt, err := prompts.Render(promptFile, "learning-resources", map[string]string{"Skill": skill})
	if err != nil {
		return nil, err
	}
	resp, err := g.client.GenerateContent(ctx, prompt, llm.TierFor(llm.TaskResources))
	if err != nil {
		return nil, &APICallError{Message: "learning resources", Cause: err}
	}
	return parseLines(resp), nil
}

// parseKeywords accepts {"keywords": [...]}, a bare JSON array, or a
// comma-separated string
func parseKeywords(resp string) ([]string, error) {
	cleaned := llm.CleanJSONBlock(resp)

	var wrapped struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapped); err == nil && wrapped.Keywords != nil {
		return trimAll(wrapped.Keywords), nil
	}
	var list []string
	if err := json.Unmarshal([]byte(cleaned), &list); err == nil {
		return trimAll(list), nil
	}
	if strings.ContainsAny(cleaned, "{[") {
		return nil, &ParseError{Message: "unrecognised keyword response"}
	}
	return trimAll(strings.Split(cleaned, ",")), nil
}

func parseLines(resp string) []string {
	var out []string
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
