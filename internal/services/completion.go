package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CompletionClient relays a single user message to an OpenAI-compatible
// chat completion API (OpenRouter by default). No prior history is sent:
// each call carries exactly one user message.
type CompletionClient struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
	logger  *zap.Logger
}

func NewCompletionClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *CompletionClient {
	return &CompletionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			// Pointer so a payload that omits the reply key is
			// distinguishable from a genuinely empty reply.
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete returns the model's reply, or an *UpstreamError for any failure
// on the provider side: network, non-2xx status, or a response body missing
// the reply.
func (c *CompletionClient) Complete(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: []completionMessage{{Role: "user", Content: message}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("completion request failed", zap.Error(err))
		return "", &UpstreamError{Message: "completion API unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("completion API returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("model", c.model))
		return "", &UpstreamError{Message: fmt.Sprintf("completion API returned status %d", resp.StatusCode)}
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &UpstreamError{Message: "malformed completion response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &UpstreamError{Message: "completion response has no choices"}
	}
	if parsed.Choices[0].Message.Content == nil {
		return "", &UpstreamError{Message: "completion response missing reply"}
	}

	return *parsed.Choices[0].Message.Content, nil
}

// UpstreamError marks a failure of the external completion provider so
// handlers can answer with a distinct upstream-unavailable status.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }
