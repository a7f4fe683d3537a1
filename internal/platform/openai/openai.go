package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/scry-feed/internal/config"
	"github.com/phrazzld/scry-feed/internal/generation"
)

// Endpoints and default models per provider.
const (
	OpenAIBaseURL      = "https://api.openai.com/v1"
	OpenRouterBaseURL  = "https://openrouter.ai/api/v1"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultRouterModel = "google/gemini-2.0-flash-001"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4 << 10
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client implements generation.Completer for chat completion APIs.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a completer for cfg.Provider, which must be "openai" or
// "openrouter". httpClient may be nil.
func NewClient(logger *slog.Logger, cfg config.LLMConfig, httpClient *http.Client) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}

	var baseURL, model string
	switch cfg.Provider {
	case "openai":
		baseURL, model = OpenAIBaseURL, DefaultOpenAIModel
	case "openrouter":
		baseURL, model = OpenRouterBaseURL, DefaultRouterModel
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	if cfg.ModelName != "" {
		model = cfg.ModelName
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		name:       cfg.Provider,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.OpenAIAPIKey,
		model:      model,
		httpClient: httpClient,
		logger:     logger.With("component", "openai_client", "provider", cfg.Provider, "model", model),
	}, nil
}

// Name implements generation.Completer.
func (c *Client) Name() string {
	return c.name
}

// Complete posts the prompt as a single user message and returns the content
// of the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", parseError(resp)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", generation.ErrInvalidResponse, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}

	choice := chatResp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", fmt.Errorf("%w: content blocked by provider filter", generation.ErrInvalidResponse)
	}

	c.logger.DebugContext(ctx, "chat completion returned",
		"finish_reason", choice.FinishReason,
		"response_length", len(choice.Message.Content))

	return choice.Message.Content, nil
}

func parseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := strings.TrimSpace(string(raw))
	var parsed errorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}

	return &generation.StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    message,
	}
}
