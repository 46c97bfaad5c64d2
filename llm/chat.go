package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ChatRequest is a single system + user exchange.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	// JSON asks the provider for a JSON object response.
	JSON bool
	// Operation labels the call in metrics and logs.
	Operation string
}

func buildChatRequest(model string, r ChatRequest) ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type responseFormat struct {
		Type string `json:"type"`
	}
	req := struct {
		Model          string          `json:"model"`
		Messages       []msg           `json:"messages"`
		Temperature    float64         `json:"temperature"`
		Stream         bool            `json:"stream"`
		ResponseFormat *responseFormat `json:"response_format,omitempty"`
	}{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.User},
		},
		Temperature: r.Temperature,
	}
	if r.JSON {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return json.Marshal(req)
}

// extractChatText reads choices[0].message.content.
func extractChatText(body []byte) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// Chat runs one completion and returns the trimmed text. An empty answer is
// ErrEmptyResponse.
func (c *Client) Chat(ctx context.Context, r ChatRequest) (text string, err error) {
	op := r.Operation
	if op == "" {
		op = "chat"
	}
	done := c.track(op)
	defer func() { done(err) }()

	body, err := buildChatRequest(c.cfg.Model, r)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	respBody, err := c.do(ctx, "/chat/completions", "application/json", body)
	if err != nil {
		c.log.Warn("chat completion failed", zap.String("operation", op), zap.Error(err))
		return "", err
	}
	text, err = extractChatText(respBody)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
