package groq

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/GreenShard-market/JC-detector/internal/metrics"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Tokens the model is instructed to answer with
const (
	TokenUnsafe = "UNSAFE"
	TokenSafe   = "SAFE"
)

// Client asks an OpenAI-compatible chat-completion endpoint for a one-token
// verdict on a username.
type Client struct {
	client *openai.Client
	prompt string
	logger *zap.Logger
}

// Config for Groq client
type Config struct {
	APIKey  string
	BaseURL string        // Default: "https://api.groq.com/openai/v1"
	Prompt  string        // must contain a single %s for the username
	Timeout time.Duration // zero means no client-side timeout
}

// NewClient creates a new Groq client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}

	if cfg.Prompt == "" {
		return nil, fmt.Errorf("prompt template is required")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	oc.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &choicesTransport{base: http.DefaultTransport},
	}

	logger.Info("Groq client initialized",
		zap.String("base_url", oc.BaseURL),
		zap.Duration("timeout", cfg.Timeout))

	return &Client{
		client: openai.NewClientWithConfig(oc),
		prompt: cfg.Prompt,
		logger: logger,
	}, nil
}

// BuildPrompt fills the username into the prompt template
func BuildPrompt(template, username string) string {
	return fmt.Sprintf(template, username)
}

// Verdict sends a single request and returns the trimmed answer. An empty
// choices array or empty content yields TokenSafe; a body without a choices
// field fails with ErrMissingChoices. The call is never retried.
func (c *Client) Verdict(ctx context.Context, username, model string, temperature float64) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(c.prompt, username),
			},
		},
		Temperature: float32(temperature),
		MaxTokens:   1,
	}

	// temperature is omitempty on the wire, so zero is sent as the smallest
	// positive float32 (about 1.4e-45), which is zero for sampling purposes
	if req.Temperature == 0 {
		req.Temperature = math.SmallestNonzeroFloat32
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	metrics.AIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AIRequests.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("groq API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		metrics.AIRequests.WithLabelValues(metrics.OutcomeAmbiguous).Inc()
		c.logger.Warn("Empty response from Groq, defaulting to SAFE",
			zap.String("model", model))
		return TokenSafe, nil
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		metrics.AIRequests.WithLabelValues(metrics.OutcomeAmbiguous).Inc()
		c.logger.Warn("Groq returned no content, defaulting to SAFE",
			zap.String("model", model),
			zap.String("finish_reason", string(resp.Choices[0].FinishReason)))
		return TokenSafe, nil
	}

	metrics.AIRequests.WithLabelValues(metrics.OutcomeAnswered).Inc()
	c.logger.Debug("Groq verdict received",
		zap.String("model", model),
		zap.String("answer", answer))

	return answer, nil
}
