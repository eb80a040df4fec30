package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"style-finder/internal/llm"
	"style-finder/internal/shared/telemetry"
)

const defaultModel = goopenai.GPT4o

// Config configures a Chat Completions vision client.
type Config struct {
	APIKey  string
	BaseURL string
	llm.Options
}

// AzureConfig configures an Azure OpenAI deployment.
type AzureConfig struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
	llm.Options
}

// Client implements llm.Vision using OpenAI-compatible Chat Completions.
type Client struct {
	api  *goopenai.Client
	opts llm.Options
	kind string
}

// NewClient constructs a client for api.openai.com or a compatible base URL.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientConfig.BaseURL = strings.TrimRight(base, "/")
	}
	opts := cfg.Options.WithDefaults()
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = defaultModel
	}
	return &Client{api: goopenai.NewClientWithConfig(clientConfig), opts: opts, kind: "openai"}, nil
}

// NewAzureClient constructs a client for an Azure OpenAI deployment. The
// deployment name is sent as the model.
func NewAzureClient(cfg AzureConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	deployment := strings.TrimSpace(cfg.Deployment)
	if deployment == "" {
		return nil, fmt.Errorf("AZURE_OPENAI_DEPLOYMENT is required")
	}
	clientConfig := goopenai.DefaultAzureConfig(cfg.APIKey, strings.TrimRight(cfg.Endpoint, "/"))
	if v := strings.TrimSpace(cfg.APIVersion); v != "" {
		clientConfig.APIVersion = v
	}
	clientConfig.AzureModelMapperFunc = func(string) string { return deployment }

	opts := cfg.Options.WithDefaults()
	opts.Model = deployment
	return &Client{api: goopenai.NewClientWithConfig(clientConfig), opts: opts, kind: "azure"}, nil
}

// DescribeOutfit sends the prompt and the image as a single user message.
func (c *Client) DescribeOutfit(ctx context.Context, input llm.ImageInput) (string, error) {
	prompt := input.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = llm.OutfitPrompt
	}
	req := goopenai.ChatCompletionRequest{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{Type: goopenai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{URL: input.DataURL()},
					},
				},
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapError(c.kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s response missing choices", c.kind)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", llm.ErrEmptyResponse
	}

	telemetry.Info("llm.response", map[string]any{
		"provider":          c.kind,
		"model":             c.opts.Model,
		"prompt_hash":       llm.PromptHash(prompt),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	})
	return content, nil
}

// apiError keeps the provider status available to the retry policy.
type apiError struct {
	status int
	err    error
}

func (e *apiError) Error() string   { return e.err.Error() }
func (e *apiError) Unwrap() error   { return e.err }
func (e *apiError) StatusCode() int { return e.status }

func wrapError(kind string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &apiError{status: apiErr.HTTPStatusCode, err: fmt.Errorf("%s error: %w", kind, err)}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &apiError{status: reqErr.HTTPStatusCode, err: fmt.Errorf("%s request: %w", kind, err)}
	}
	return fmt.Errorf("%s request: %w", kind, err)
}

var _ llm.Vision = (*Client)(nil)
