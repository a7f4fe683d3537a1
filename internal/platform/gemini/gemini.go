package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-feed/internal/config"
	"github.com/phrazzld/scry-feed/internal/generation"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "gemini-2.0-flash"

// Client implements generation.Completer using the Gemini API.
type Client struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewClient creates a Gemini completer from the LLM configuration.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Client{
		logger: logger.With("component", "gemini_client", "model", model),
		client: client,
		model:  model,
	}, nil
}

func validateConfig(cfg config.LLMConfig) error {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}

// Name implements generation.Completer.
func (c *Client) Name() string {
	return "gemini"
}

// Complete sends the prompt as a single user turn and returns the text of
// the first candidate. JSON output is requested from the model.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.DebugContext(ctx, "calling Gemini API", "prompt_length", len(prompt))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &generation.StatusError{
				StatusCode: apiErr.Code,
				Status:     apiErr.Status,
				Message:    apiErr.Message,
			}
		}
		return "", err
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrInvalidResponse)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}

	c.logger.DebugContext(ctx, "Gemini API call returned",
		"finish_reason", string(candidate.FinishReason),
		"response_length", text.Len())

	return text.String(), nil
}
