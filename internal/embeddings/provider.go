package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kamusis/coursematch/internal/config"
)

// ErrModelUnavailable indicates the embedding model cannot be initialized or reached.
// It is a startup condition: callers must not serve requests after seeing it.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Provider embeds text into a fixed-length float vector.
//
// Implementations must be deterministic for the same input text and model,
// and safe for concurrent use once constructed.
type Provider interface {
	ModelID() string
	Dim() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config contains the resolved embeddings configuration.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Dim      int
}

// LoadConfig resolves embeddings config from environment variables first, then ~/.coursematch/.env.
func LoadConfig() (*Config, error) {
	provider, err := config.GetConfigValue("COURSEMATCH_EMBEDDINGS_PROVIDER")
	if err != nil {
		return nil, err
	}
	model, err := config.GetConfigValue("COURSEMATCH_EMBEDDINGS_MODEL")
	if err != nil {
		return nil, err
	}
	apiKey, err := config.GetConfigValue("COURSEMATCH_EMBEDDINGS_API_KEY")
	if err != nil {
		return nil, err
	}
	baseURL, err := config.GetConfigValue("COURSEMATCH_EMBEDDINGS_BASE_URL")
	if err != nil {
		return nil, err
	}
	rawDim, err := config.GetConfigValue("COURSEMATCH_EMBEDDINGS_DIM")
	if err != nil {
		return nil, err
	}

	var dim int
	if s := strings.TrimSpace(rawDim); s != "" {
		dim, err = strconv.Atoi(s)
		if err != nil || dim < 0 {
			return nil, fmt.Errorf("invalid COURSEMATCH_EMBEDDINGS_DIM %q", rawDim)
		}
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Config{
		Provider: strings.ToLower(strings.TrimSpace(provider)),
		Model:    strings.TrimSpace(model),
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Dim:      dim,
	}, nil
}

// NewFromConfig returns a ready embeddings provider.
// Every configuration problem is reported as ErrModelUnavailable.
func NewFromConfig(cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: embeddings config is nil", ErrModelUnavailable)
	}
	switch cfg.Provider {
	case "":
		return nil, fmt.Errorf("%w: provider is not configured (set COURSEMATCH_EMBEDDINGS_PROVIDER)", ErrModelUnavailable)
	case "openai":
		return NewOpenAI(cfg)
	case "hash":
		dim := cfg.Dim
		if dim == 0 {
			dim = DefaultHashDim
		}
		return NewHash(dim), nil
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrModelUnavailable, cfg.Provider)
	}
}

const probeText = "course recommendation probe"

// Probe embeds a fixed string once to verify the model is reachable and
// reports the dimension it actually produces.
func Probe(ctx context.Context, p Provider) (int, error) {
	v, err := p.Embed(ctx, probeText)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrModelUnavailable, p.ModelID(), err)
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("%w: %s returned an empty vector", ErrModelUnavailable, p.ModelID())
	}
	if d := p.Dim(); d > 0 && d != len(v) {
		return 0, fmt.Errorf("%w: %s declared dim %d but produced %d", ErrModelUnavailable, p.ModelID(), d, len(v))
	}
	return len(v), nil
}
