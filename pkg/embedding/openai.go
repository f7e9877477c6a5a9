package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAIProvider talks to an OpenAI-compatible /embeddings endpoint.
type OpenAIProvider struct {
	baseURL    string
	model      string
	apiKey     string
	dimensions int
	httpClient *http.Client
}

// NewOpenAIProvider validates the configuration and constructs the provider.
func NewOpenAIProvider(cfg *Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &OpenAIProvider{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
	}, nil
}

// CreateEmbeddings sends all texts in a single request and returns one
// vector per text, in input order.
func (p *OpenAIProvider) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	reqBody := map[string]any{
		"model": p.model,
		"input": texts,
	}

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}

	url := p.baseURL + "/embeddings"
	if err := p.postJSON(ctx, url, reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrEmbeddingUnavailable, len(texts), len(parsed.Data))
	}

	// The API reports the position of each vector; order by it rather
	// than trusting response ordering.
	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", ErrEmbeddingUnavailable, d.Index)
		}
		out[d.Index] = d.Embedding
	}

	for i, vec := range out {
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: empty embedding for input %d", ErrEmbeddingUnavailable, i)
		}
	}
	return out, nil
}

// Dimensions reports the configured model's vector size.
func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}
