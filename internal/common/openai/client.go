// internal/common/openai/client.go
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"movienight-backend/internal/common/config"
	"movienight-backend/internal/common/logger"
)

// Client is the OpenAI API surface used by the recommendation pipeline
// and the catalog seeder.
type Client interface {
	// Embed returns one embedding vector for a single input string.
	Embed(ctx context.Context, input string) ([]float64, error)

	// Complete sends a system instruction and a user message to the chat
	// completions API and returns the first choice verbatim.
	Complete(ctx context.Context, system, user string) (string, error)
}

type client struct {
	baseURL         string
	apiKey          string
	embedModel      string
	completionModel string
	httpClient      *http.Client
	logger          logger.Logger
}

// NewClient creates an OpenAI client from configuration. The per-request
// deadline comes from the caller's context; the http.Client timeout is the
// hard upper bound.
func NewClient(cfg config.OpenAIConfig, log logger.Logger) Client {
	return &client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		embedModel:      cfg.EmbedModel,
		completionModel: cfg.CompletionModel,
		httpClient: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		logger: log.With(map[string]interface{}{"client": "openai"}),
	}
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (c *client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &httpError{StatusCode: resp.StatusCode, Body: truncate(string(data), 512)}
	}

	return json.Unmarshal(data, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type embeddingsRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, input string) ([]float64, error) {
	var resp embeddingsResponse
	err := c.post(ctx, "/v1/embeddings", embeddingsRequest{
		Model: c.embedModel,
		Input: input,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings response contained no data")
	}

	c.logger.Debug("embedding generated", map[string]interface{}{
		"model":      c.embedModel,
		"dimensions": len(resp.Data[0].Embedding),
	})

	return resp.Data[0].Embedding, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) Complete(ctx context.Context, system, user string) (string, error) {
	var resp chatCompletionResponse
	err := c.post(ctx, "/v1/chat/completions", chatCompletionRequest{
		Model: c.completionModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion response contained no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
