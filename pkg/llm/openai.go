package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/FACorreiaa/warehouse-assistant/pkg/config"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
// Pointing BaseURL at a local server (Ollama, llama.cpp) works unchanged.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.LLMConfig, logger *slog.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger.Info("initializing text-generation client", "model", cfg.Model, "base_url", cfg.BaseURL)

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      logger,
	}
}

// Generate implements Generator.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Error("text-generation call failed", "error", err)
		return "", fmt.Errorf("text-generation call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("text-generation backend returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
