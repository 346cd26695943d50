package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/persona-rag/go-persona/core"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultEmbedModel  = "text-embedding-3-small"
	defaultMaxInputLen = 8000
)

// Known dimensions for OpenAI embedding models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIConfig configures the semantic embedding provider.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string        // default: https://api.openai.com/v1
	Model       string        // default: text-embedding-3-small
	Timeout     time.Duration // default: 60s
	MaxInputLen int           // input truncation budget in runes, default: 8000
}

// OpenAIProvider generates embeddings via the OpenAI embeddings API.
type OpenAIProvider struct {
	apiKey      string
	baseURL     string
	model       string
	maxInputLen int
	dimensions  int
	client      *http.Client
}

// NewOpenAIProvider creates a semantic embedding provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultEmbedModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxInputLen <= 0 {
		cfg.MaxInputLen = defaultMaxInputLen
	}

	dimensions, ok := modelDimensions[cfg.Model]
	if !ok {
		dimensions = 1536
	}

	return &OpenAIProvider{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		maxInputLen: cfg.MaxInputLen,
		dimensions:  dimensions,
		client:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Embed returns the embedding for the given text. Failures to reach the API
// wrap core.ErrProviderUnavailable; callers decide whether to retry.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	text = Truncate(text, p.maxInputLen)

	body, err := json.Marshal(embeddingRequest{Model: p.model, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", core.ErrProviderUnavailable, err)
	}

	var result embeddingResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", core.ErrProviderUnavailable, err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrProviderUnavailable, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", core.ErrProviderUnavailable, resp.StatusCode, string(respBody))
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", core.ErrProviderUnavailable)
	}

	return result.Data[0].Embedding, nil
}

// Dimensions returns the embedding vector size.
func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}

// Name identifies the provider and model.
func (p *OpenAIProvider) Name() string {
	return "openai/" + p.model
}

// Truncate keeps the first limit runes of text. Overflow is common and
// non-fatal, so no error is signaled.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
