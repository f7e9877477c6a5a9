package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrGenerationUnavailable is returned when the language-generation
// capability cannot be reached or rejects the request.
var ErrGenerationUnavailable = errors.New("generation service unavailable")

// Generator contract. Implementations synthesize an answer from a
// system prompt and a user prompt via an external chat-completion
// capability.
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIGenerator talks to an OpenAI-compatible /chat/completions endpoint.
type OpenAIGenerator struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewOpenAIGenerator validates the configuration and constructs the generator.
func NewOpenAIGenerator(cfg *Config) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &OpenAIGenerator{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutS) * time.Second},
	}, nil
}

// Complete sends a two-message chat request and returns the first
// choice's content.
func (g *OpenAIGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := map[string]any{
		"model": g.model,
		"messages": []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := g.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: http %d for %s", ErrGenerationUnavailable, resp.StatusCode, url)
	}

	var parsed struct {
		Choices []struct {
			Message message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGenerationUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response contains no choices", ErrGenerationUnavailable)
	}

	return parsed.Choices[0].Message.Content, nil
}
