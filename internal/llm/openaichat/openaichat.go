// Package openaichat adapts any OpenAI-compatible chat-completions
// endpoint (/chat/completions) to the pipeline's adapter contract. It
// serves both Groq and Mistral, which share the envelope but differ in
// base URL and model names.
package openaichat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"biosync/internal/llm"
)

type Client struct {
	provider string
	baseURL  string
	apiKey   string
	model    string
	vision   bool
	httpc    *http.Client
}

func New(provider, baseURL, apiKey, model string, vision bool, timeout time.Duration) *Client {
	return &Client{
		provider: provider,
		baseURL:  baseURL,
		apiKey:   apiKey,
		model:    model,
		vision:   vision,
		httpc:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string         { return c.provider + ":" + c.model }
func (c *Client) Configured() bool     { return c.apiKey != "" }
func (c *Client) SupportsVision() bool { return c.vision }

func (c *Client) Invoke(ctx context.Context, req llm.Request) (string, error) {
	messages := make([]map[string]any, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": req.System})
	}
	if req.Image.Empty() {
		messages = append(messages, map[string]any{"role": "user", "content": req.Prompt})
	} else {
		// Vision requests embed the image as an inline data URL part.
		messages = append(messages, map[string]any{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": req.Prompt},
				{"type": "image_url", "image_url": map[string]string{"url": req.Image.DataURL()}},
			},
		})
	}

	body := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": 0.1,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", llm.Failw(llm.FailUnknown, "marshal request", err)
	}

	url := strings.TrimRight(c.baseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", llm.Failw(llm.FailUnknown, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", llm.Failw(llm.FailTransport, fmt.Sprintf("call %s", c.provider), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.Failw(llm.FailTransport, fmt.Sprintf("read %s response", c.provider), err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", llm.Failf(llm.FailAuth, "%s: %s", c.provider, msg)
		case http.StatusTooManyRequests:
			return "", llm.Failf(llm.FailRateLimited, "%s: %s", c.provider, msg)
		default:
			return "", llm.Failf(llm.FailTransport, "%s status %d: %s", c.provider, resp.StatusCode, msg)
		}
	}

	out := gjson.GetBytes(respBody, "choices.0.message.content")
	if !out.Exists() {
		return "", llm.Failf(llm.FailMalformed, "%s reply has no message content", c.provider)
	}
	return out.String(), nil
}
