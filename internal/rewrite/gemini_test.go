package rewrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGeminiClient(GeminiConfig{
		APIKey:      "test-key",
		Model:       "gemini-test",
		BaseURL:     server.URL,
		Temperature: 0.1,
	})
	require.NoError(t, err)
	return client
}

func TestNewGeminiClient(t *testing.T) {
	_, err := NewGeminiClient(GeminiConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	client, err := NewGeminiClient(GeminiConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.Name())
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestGeminiClient_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("sends prompt and joins parts", func(t *testing.T) {
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

			var req struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
				GenerationConfig struct {
					Temperature float64 `json:"temperature"`
				} `json:"generationConfig"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			assert.Equal(t, "refine this", req.Contents[0].Parts[0].Text)
			assert.InDelta(t, 0.1, req.GenerationConfig.Temperature, 1e-6)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello, "},{"text":"World."}]},"finishReason":"STOP"}]}`))
		})

		out, err := client.Generate(ctx, "refine this")
		require.NoError(t, err)
		assert.Equal(t, "Hello, World.", out)
	})

	t.Run("error statuses", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			check  func(t *testing.T, err error)
		}{
			{
				name:   "unauthorized",
				status: http.StatusForbidden,
				check: func(t *testing.T, err error) {
					assert.ErrorIs(t, err, ErrInvalidAPIKey)
					assert.Contains(t, err.Error(), "API key not valid")
				},
			},
			{
				name:   "rate limited",
				status: http.StatusTooManyRequests,
				check: func(t *testing.T, err error) {
					assert.ErrorIs(t, err, ErrRateLimited)
				},
			},
			{
				name:   "server error",
				status: http.StatusServiceUnavailable,
				check: func(t *testing.T, err error) {
					var serverErr *ServerError
					require.True(t, errors.As(err, &serverErr))
					assert.Equal(t, http.StatusServiceUnavailable, serverErr.StatusCode)
				},
			},
			{
				name:   "bad request",
				status: http.StatusBadRequest,
				check: func(t *testing.T, err error) {
					assert.Contains(t, err.Error(), "unexpected status 400")
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(tt.status)
					_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"API key not valid","status":"X"}}`, tt.status)
				})

				_, err := client.Generate(ctx, "p")
				require.Error(t, err)
				tt.check(t, err)
			})
		}
	})

	t.Run("blocked prompt", func(t *testing.T) {
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
		})

		_, err := client.Generate(ctx, "p")
		assert.ErrorIs(t, err, ErrBlocked)
	})

	t.Run("no candidates", func(t *testing.T) {
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		})

		_, err := client.Generate(ctx, "p")
		assert.Error(t, err)
	})

	t.Run("skips thought parts", func(t *testing.T) {
		client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"thinking","thought":true},{"text":"Answer."}]}}]}`))
		})

		out, err := client.Generate(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "Answer.", out)
	})
}
