package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eti-labs/arpgen/internal/core/domain"
	"github.com/eti-labs/arpgen/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewLLMService(LLMConfig{
		APIKey:            "test-key",
		BaseURL:           srv.URL,
		Model:             "test-model",
		RequestsPerMinute: 100_000,
	})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewLLMService(LLMConfig{})
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		svc, err := NewLLMService(LLMConfig{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultLLMModel, svc.ModelName())
		assert.Equal(t, DefaultLLMTimeout, svc.timeout)
	})
}

func TestLLMService_Complete(t *testing.T) {
	t.Run("happy path with schema", func(t *testing.T) {
		var captured chatCompletionRequest
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": `{"ok": true}`}},
				},
				"usage": map[string]any{
					"prompt_tokens":     120,
					"completion_tokens": 30,
				},
			})
		})

		res, err := svc.Complete(context.Background(), driven.CompletionRequest{
			System:    "classify things",
			User:      `{"activity_name": "Kayaking"}`,
			MaxTokens: 400,
			Schema: &driven.ResponseSchema{
				Name:   "icon_intent_spec",
				Schema: map[string]any{"type": "object"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, `{"ok": true}`, res.Content)
		assert.Equal(t, 120, res.Usage.InputTokens)
		assert.Equal(t, 30, res.Usage.OutputTokens)

		assert.Equal(t, "test-model", captured.Model)
		assert.Equal(t, float64(0), captured.Temperature)
		assert.Equal(t, 400, captured.MaxTokens)
		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Equal(t, "user", captured.Messages[1].Role)
		require.NotNil(t, captured.ResponseFormat)
		assert.Equal(t, "json_schema", captured.ResponseFormat.Type)
		assert.True(t, captured.ResponseFormat.JSONSchema.Strict)
		assert.Equal(t, "icon_intent_spec", captured.ResponseFormat.JSONSchema.Name)
	})

	t.Run("no schema omits response format", func(t *testing.T) {
		var captured chatCompletionRequest
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "plain text"}},
				},
			})
		})

		res, err := svc.Complete(context.Background(), driven.CompletionRequest{
			System: "s", User: "u",
		})
		require.NoError(t, err)
		assert.Equal(t, "plain text", res.Content)
		assert.Nil(t, captured.ResponseFormat)
	})

	t.Run("non-2xx maps to upstream error", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited"}}`))
		})

		_, err := svc.Complete(context.Background(), driven.CompletionRequest{System: "s", User: "u"})
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("error payload with 200 status", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
		})

		_, err := svc.Complete(context.Background(), driven.CompletionRequest{System: "s", User: "u"})
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Contains(t, err.Error(), "model overloaded")
	})

	t.Run("empty choices", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		})

		_, err := svc.Complete(context.Background(), driven.CompletionRequest{System: "s", User: "u"})
		assert.ErrorIs(t, err, domain.ErrUpstream)
	})

	t.Run("malformed body is a parse error", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway</html>"))
		})

		_, err := svc.Complete(context.Background(), driven.CompletionRequest{System: "s", User: "u"})
		assert.ErrorIs(t, err, domain.ErrParse)
	})

	t.Run("slow upstream maps to timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(srv.Close)

		svc, err := NewLLMService(LLMConfig{
			APIKey:            "k",
			BaseURL:           srv.URL,
			Timeout:           20 * time.Millisecond,
			RequestsPerMinute: 100_000,
		})
		require.NoError(t, err)

		_, err = svc.Complete(context.Background(), driven.CompletionRequest{System: "s", User: "u"})
		assert.ErrorIs(t, err, domain.ErrUpstreamTimeout)
	})

	t.Run("long error body is truncated", func(t *testing.T) {
		long := make([]byte, 4096)
		for i := range long {
			long[i] = 'x'
		}
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(long)
		})

		_, err := svc.Complete(context.Background(), driven.CompletionRequest{System: "s", User: "u"})
		require.ErrorIs(t, err, domain.ErrUpstream)
		assert.Less(t, len(err.Error()), 1024)
		assert.Contains(t, err.Error(), "(truncated)")
	})
}
