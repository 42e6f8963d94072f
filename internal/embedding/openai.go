package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using OpenAI API.
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dim    int
}

// NewOpenAI creates a new OpenAI embedding provider and probes the model once
// to learn its dimension.
func NewOpenAI(ctx context.Context, apiKey string, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, modelUnavailable("openai API key is required", nil)
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	p := &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(model),
	}

	probe, err := p.create(ctx, []string{"embedding probe"})
	if err != nil {
		return nil, modelUnavailable(fmt.Sprintf("openai model %s did not respond", model), err)
	}
	p.dim = len(probe[0])
	if p.dim == 0 {
		return nil, modelUnavailable(fmt.Sprintf("openai model %s returned an empty embedding", model), nil)
	}
	return p, nil
}

// Embed generates an embedding for a single text string.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return make([]float32, p.dim), nil
	}
	vecs, err := p.create(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple text strings.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	nonEmpty, pos := splitEmpty(texts)
	var vecs [][]float32
	if len(nonEmpty) > 0 {
		var err error
		vecs, err = p.create(ctx, nonEmpty)
		if err != nil {
			return nil, err
		}
	}
	return scatter(len(texts), p.dim, pos, vecs), nil
}

// Dimension returns the vector length
func (p *OpenAIProvider) Dimension() int { return p.dim }

// Model returns the model name
func (p *OpenAIProvider) Model() string { return string(p.model) }

func (p *OpenAIProvider) create(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("create embeddings returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	result := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(result) {
			return nil, fmt.Errorf("embedding index %d out of range", data.Index)
		}
		result[data.Index] = data.Embedding
	}
	return result, nil
}
