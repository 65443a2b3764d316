package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	chatTimeout     = 60 * time.Second
	chatMaxAttempts = 3
	chatTemperature = 0.3
	chatMaxTokens   = 2000
)

// ChatClient calls an OpenAI-compatible chat completions endpoint. It is
// used for Volcengine's Doubao models.
type ChatClient struct {
	http    *http.Client
	apiKey  string
	model   string
	baseURL string
	backoff time.Duration
}

// NewChatClient creates a chat client. Empty model and baseURL select the
// Volcengine defaults.
func NewChatClient(apiKey, model, baseURL string) *ChatClient {
	if model == "" {
		model = DefaultVolcengineModel
	}
	if baseURL == "" {
		baseURL = DefaultVolcengineURL
	}
	return &ChatClient{
		http:    &http.Client{Timeout: chatTimeout},
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		backoff: 2 * time.Second,
	}
}

func (c *ChatClient) Name() string  { return ProviderVolcengine }
func (c *ChatClient) Model() string { return c.model }

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// retryableError marks failures worth another attempt: rate limiting and
// upstream 5xx responses.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Complete implements Provider. Rate-limited and 5xx responses are
// retried with a linear backoff.
func (c *ChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    chatTemperature,
		MaxTokens:      chatMaxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	for attempt := 1; ; attempt++ {
		out, err := c.do(ctx, body)
		if err == nil {
			return out, nil
		}
		if _, ok := err.(*retryableError); !ok || attempt == chatMaxAttempts {
			return "", err
		}
		slog.Warn("retrying llm call", "provider", c.Name(), "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
}

func (c *ChatClient) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("chat completions: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", &retryableError{err: err}
		}
		return "", err
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}
