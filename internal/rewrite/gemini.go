package rewrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/"
	DefaultAPIVersion  = "v1beta"
	DefaultTemperature = 0.1
	defaultTimeout     = 60 * time.Second
)

// GeminiConfig holds the settings for GeminiClient. Zero values take the
// defaults above.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// GeminiClient implements LanguageModel on top of the Gemini API SDK.
type GeminiClient struct {
	client      *genai.Client
	baseURL     string
	model       string
	temperature float32
}

// NewGeminiClient creates a client. It fails when no API key is given, so a
// misconfigured process stops before the poll loop starts.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: DefaultAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}, nil
}

func (c *GeminiClient) Name() string {
	return c.model
}

// Generate sends one prompt and returns the concatenated text of the first
// candidate. Thought parts are left out.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := c.temperature
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", apiError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// apiError maps SDK errors onto the package's error values.
func apiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return fmt.Errorf("request failed: %w", err)
		}
		apiErr = *ptr
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, apiErr.Message)
	case apiErr.Code == http.StatusTooManyRequests:
		return ErrRateLimited
	case apiErr.Code >= 500:
		return &ServerError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	return fmt.Errorf("unexpected status %d: %s", apiErr.Code, apiErr.Message)
}
