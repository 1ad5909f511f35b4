// Package claude adapts the Anthropic Messages API to the pipeline's
// adapter contract, via the go-anthropic SDK.
package claude

import (
	"context"
	"errors"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"biosync/internal/llm"
)

type Client struct {
	apiKey string
	model  string
	client *anthropic.Client
}

func New(apiKey, model string, opts ...anthropic.ClientOption) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		client: anthropic.NewClient(apiKey, opts...),
	}
}

func (c *Client) Name() string         { return "claude:" + c.model }
func (c *Client) Configured() bool     { return c.apiKey != "" }
func (c *Client) SupportsVision() bool { return true }

func (c *Client) Invoke(ctx context.Context, req llm.Request) (string, error) {
	var msg anthropic.Message
	if req.Image.Empty() {
		msg = anthropic.NewUserTextMessage(req.Prompt)
	} else {
		msg = anthropic.Message{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					req.Image.MIME,
					req.Image.Data,
				)),
				anthropic.NewTextMessageContent(req.Prompt),
			},
		}
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    req.System,
		MaxTokens: 1024,
		Messages:  []anthropic.Message{msg},
	})
	if err != nil {
		return "", classify(err)
	}

	for _, block := range resp.Content {
		if text := block.GetText(); text != "" {
			return text, nil
		}
	}
	return "", llm.Failf(llm.FailMalformed, "claude reply has no text block")
}

// classify maps SDK errors onto the pipeline failure taxonomy.
func classify(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsAuthenticationErr(), apiErr.IsPermissionErr():
			return llm.Failw(llm.FailAuth, "claude", err)
		case apiErr.IsRateLimitErr(), apiErr.IsOverloadedErr():
			return llm.Failw(llm.FailRateLimited, "claude", err)
		default:
			return llm.Failw(llm.FailTransport, "claude", err)
		}
	}
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return llm.Failw(llm.FailTransport, "claude", err)
	}
	return llm.Failw(llm.FailTransport, "call claude", err)
}
