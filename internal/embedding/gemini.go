package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// geminiBatchLimit is the maximum number of contents per BatchEmbedContents call
const geminiBatchLimit = 100

// GeminiProvider implements Provider using the Gemini embedding API
type GeminiProvider struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	name   string
	dim    int
}

// NewGemini creates a Gemini embedding provider and probes the model once to
// learn its dimension.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, modelUnavailable("gemini API key is required", nil)
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, modelUnavailable("failed to create Gemini client", err)
	}

	em := client.EmbeddingModel(model)
	em.TaskType = genai.TaskTypeSemanticSimilarity

	res, err := em.EmbedContent(ctx, genai.Text("embedding probe"))
	if err != nil {
		_ = client.Close()
		return nil, modelUnavailable(fmt.Sprintf("gemini model %s did not respond", model), err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		_ = client.Close()
		return nil, modelUnavailable(fmt.Sprintf("gemini model %s returned no embedding", model), nil)
	}

	return &GeminiProvider{
		client: client,
		model:  em,
		name:   model,
		dim:    len(res.Embedding.Values),
	}, nil
}

// Embed generates an embedding for a single text string.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return make([]float32, p.dim), nil
	}
	res, err := p.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("no embedding returned")
	}
	return res.Embedding.Values, nil
}

// EmbedBatch generates embeddings for multiple text strings. Inputs are sent
// in chunks of at most 100, concurrently.
func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	nonEmpty, pos := splitEmpty(texts)
	vecs := make([][]float32, len(nonEmpty))

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(nonEmpty); start += geminiBatchLimit {
		end := min(start+geminiBatchLimit, len(nonEmpty))
		g.Go(func() error {
			batch := p.model.NewBatch()
			for _, t := range nonEmpty[start:end] {
				batch.AddContent(genai.Text(t))
			}
			res, err := p.model.BatchEmbedContents(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch embed contents: %w", err)
			}
			if len(res.Embeddings) != end-start {
				return fmt.Errorf("batch embed returned %d embeddings for %d inputs", len(res.Embeddings), end-start)
			}
			for i, e := range res.Embeddings {
				vecs[start+i] = e.Values
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scatter(len(texts), p.dim, pos, vecs), nil
}

// Dimension returns the vector length
func (p *GeminiProvider) Dimension() int { return p.dim }

// Model returns the model name
func (p *GeminiProvider) Model() string { return p.name }

// Close releases resources held by the client
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
