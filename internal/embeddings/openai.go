package embeddings

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// knownDims lists output sizes of the hosted OpenAI models.
var knownDims = map[string]int{
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
	string(openai.AdaEmbeddingV2):  1536,
}

type openAIProvider struct {
	client     *openai.Client
	model      string
	dimensions int // requested output size, 0 = model default
	dim        atomic.Int64
}

// NewOpenAI constructs a provider for any OpenAI-compatible /embeddings endpoint.
// Pointing BaseURL at a local server (Ollama, LM Studio, vLLM) works without an API key.
func NewOpenAI(cfg *Config) (Provider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model is not configured (set COURSEMATCH_EMBEDDINGS_MODEL)", ErrModelUnavailable)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if cfg.APIKey == "" && baseURL == defaultOpenAIBaseURL {
		return nil, fmt.Errorf("%w: API key is not configured (set COURSEMATCH_EMBEDDINGS_API_KEY)", ErrModelUnavailable)
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = baseURL

	p := &openAIProvider{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}
	switch {
	case cfg.Dim > 0:
		p.dim.Store(int64(cfg.Dim))
		if strings.HasPrefix(cfg.Model, "text-embedding-3") {
			p.dimensions = cfg.Dim
		}
	case knownDims[cfg.Model] > 0:
		p.dim.Store(int64(knownDims[cfg.Model]))
	}
	return p, nil
}

func (p *openAIProvider) ModelID() string {
	return "openai:" + p.model
}

// Dim returns 0 until the first response when the model is unknown.
func (p *openAIProvider) Dim() int {
	return int(p.dim.Load())
}

func (p *openAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(p.model),
		Input:      []string{text},
		Dimensions: p.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings response missing embedding")
	}

	src := resp.Data[0].Embedding
	out := make([]float32, len(src))
	for i := range src {
		out[i] = float32(src[i])
	}

	if want := p.dim.Load(); want == 0 {
		p.dim.CompareAndSwap(0, int64(len(out)))
	} else if int(want) != len(out) {
		return nil, fmt.Errorf("embedding dim changed: got %d want %d", len(out), want)
	}
	return out, nil
}
