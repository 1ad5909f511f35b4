package claude

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biosync/internal/llm"
)

func messagesReply(text string) string {
	return `{
		"id": "msg_test",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-haiku-latest",
		"content": [{"type": "text", "text": ` + jsonString(text) + `}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\\':
			out += `\\`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestClaudeInvoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messagesReply(`{"answer": "yes"}`)))
	}))
	defer server.Close()

	client := New("sk-test", "claude-3-5-haiku-latest", anthropic.WithBaseURL(server.URL))
	text, err := client.Invoke(context.Background(), llm.Request{Task: llm.TaskQnA, Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, `{"answer": "yes"}`, text)
}

func TestClaudeInvokeWithImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messagesReply("Paneer curry")))
	}))
	defer server.Close()

	client := New("sk-test", "claude-3-5-haiku-latest", anthropic.WithBaseURL(server.URL))
	text, err := client.Invoke(context.Background(), llm.Request{
		Task:   llm.TaskFoodScan,
		Prompt: "what is this",
		Image:  &llm.ImagePayload{Data: []byte{0xFF, 0xD8}, MIME: "image/jpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Paneer curry", text)
}

func TestClaudeAuthErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	client := New("sk-bad", "claude-3-5-haiku-latest", anthropic.WithBaseURL(server.URL))
	_, err := client.Invoke(context.Background(), llm.Request{Task: llm.TaskQnA, Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, llm.FailAuth, llm.KindOf(err))
}

func TestClaudeRateLimitClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	client := New("sk-test", "claude-3-5-haiku-latest", anthropic.WithBaseURL(server.URL))
	_, err := client.Invoke(context.Background(), llm.Request{Task: llm.TaskQnA, Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, llm.FailRateLimited, llm.KindOf(err))
}

func TestClaudeConfigured(t *testing.T) {
	assert.False(t, New("", "m").Configured())
	assert.True(t, New("sk", "m").Configured())
}
