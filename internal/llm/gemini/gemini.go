// Package gemini adapts the Google Gemini generateContent REST API to
// the pipeline's adapter contract.
package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

func New(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string         { return "gemini:" + c.model }
func (c *Client) Configured() bool     { return c.apiKey != "" }
func (c *Client) SupportsVision() bool { return true }

// request types mirror the generateContent body shape.
type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

func (c *Client) Invoke(ctx context.Context, req llm.Request) (string, error) {
	text := req.Prompt
	if req.System != "" {
		text = req.System + "\n" + req.Prompt
	}
	parts := []part{{Text: text}}
	if !req.Image.Empty() {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: req.Image.MIME,
			Data:     req.Image.Base64(),
		}})
	}

	body := map[string]any{
		"contents":         []map[string]any{{"role": "user", "parts": parts}},
		"generationConfig": map[string]any{"temperature": 0.1},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", llm.Failw(llm.FailUnknown, "marshal request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.baseURL, "/"), c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", llm.Failw(llm.FailUnknown, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", llm.Failw(llm.FailTransport, "call gemini", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.Failw(llm.FailTransport, "read gemini response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", llm.Failf(llm.FailAuth, "gemini: %s", msg)
		case http.StatusTooManyRequests:
			return "", llm.Failf(llm.FailRateLimited, "gemini: %s", msg)
		default:
			return "", llm.Failf(llm.FailTransport, "gemini status %d: %s", resp.StatusCode, msg)
		}
	}

	out := gjson.GetBytes(respBody, "candidates.0.content.parts.0.text")
	if !out.Exists() {
		return "", llm.Failf(llm.FailMalformed, "gemini reply has no candidate text")
	}
	return out.String(), nil
}
