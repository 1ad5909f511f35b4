package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biosync/internal/llm"
)

func newTestClient(serverURL string) *Client {
	c := New("test-key", "gemini-1.5-flash", 5*time.Second)
	c.baseURL = serverURL
	return c
}

func TestGeminiInvoke(t *testing.T) {
	var gotPath string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": `{"food_name":"Apple"}`}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.Invoke(context.Background(), llm.Request{
		Task:   llm.TaskFoodScan,
		System: "Nutritionist.",
		Prompt: "Analyze this.",
		Image:  &llm.ImagePayload{Data: []byte{0xFF, 0xD8}, MIME: "image/jpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"food_name":"Apple"}`, text)

	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Contains(t, string(gotBody), `"inline_data"`)
	assert.Contains(t, string(gotBody), `"image/jpeg"`)
	// System text rides in front of the prompt.
	assert.Contains(t, string(gotBody), "Nutritionist.")
}

func TestGeminiTextOnlyOmitsInlineData(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Invoke(context.Background(), llm.Request{Task: llm.TaskQnA, Prompt: "hi"})
	require.NoError(t, err)
	assert.NotContains(t, string(gotBody), "inline_data")
}

func TestGeminiErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   llm.FailKind
	}{
		{"unauthorized", http.StatusUnauthorized, llm.FailAuth},
		{"forbidden", http.StatusForbidden, llm.FailAuth},
		{"rate limited", http.StatusTooManyRequests, llm.FailRateLimited},
		{"server error", http.StatusInternalServerError, llm.FailTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Invoke(context.Background(), llm.Request{Task: llm.TaskQnA, Prompt: "hi"})
			require.Error(t, err)
			assert.Equal(t, tt.want, llm.KindOf(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestGeminiMalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Invoke(context.Background(), llm.Request{Task: llm.TaskQnA, Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, llm.FailMalformed, llm.KindOf(err))
}

func TestGeminiConfigured(t *testing.T) {
	assert.False(t, New("", "m", time.Second).Configured())
	assert.True(t, New("key", "m", time.Second).Configured())
}
