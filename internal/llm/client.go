// Package llm provides OpenAI-compatible LLM client.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client is a wrapper around go-openai with specific configurations.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// Config holds the configuration for the LLM client.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// NewClient creates a new LLM client with the provided configuration.
func NewClient(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

// Complete sends a system+user prompt pair and returns the raw completion.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// CheckRelevance asks the model a yes/no relevance question built from the
// prompt config and returns the parsed verdict.
func (c *Client) CheckRelevance(ctx context.Context, prompts *PromptConfig, vars map[string]string) (bool, error) {
	answer, err := c.Complete(ctx, prompts.System, prompts.BuildUserPrompt(vars))
	if err != nil {
		return false, err
	}
	return ParseVerdict(answer), nil
}

// ParseVerdict interprets a model answer as a yes/no verdict.
// Anything other than an affirmative is treated as not relevant.
func ParseVerdict(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	answer = strings.Trim(answer, ".!\"'`")
	return answer == "yes" || answer == "true" || strings.HasPrefix(answer, "yes,") || strings.HasPrefix(answer, "yes.")
}
