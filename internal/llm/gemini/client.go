package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"style-finder/internal/llm"
	"style-finder/internal/shared/telemetry"
)

const defaultModel = "gemini-2.5-flash"

// Config configures the Gemini vision client.
type Config struct {
	APIKey string
	// BaseURL overrides the Gemini API endpoint. Used by tests.
	BaseURL string
	llm.Options
}

// Client implements llm.Vision on the Gemini API.
type Client struct {
	client *genai.Client
	opts   llm.Options
}

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	opts := cfg.Options.WithDefaults()
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = defaultModel
	}
	return &Client{client: client, opts: opts}, nil
}

// DescribeOutfit sends the prompt and the inline image as one user turn.
func (g *Client) DescribeOutfit(ctx context.Context, input llm.ImageInput) (string, error) {
	prompt := input.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = llm.OutfitPrompt
	}
	mimeType := input.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		{InlineData: &genai.Blob{Data: input.Data, MIMEType: mimeType}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temperature := g.opts.Temperature
	genCfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.opts.MaxTokens),
		Temperature:     &temperature,
	}

	result, err := g.client.Models.GenerateContent(ctx, g.opts.Model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", llm.ErrEmptyResponse
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", llm.ErrEmptyResponse
	}

	fields := map[string]any{
		"provider":    "gemini",
		"model":       g.opts.Model,
		"prompt_hash": llm.PromptHash(prompt),
	}
	if result.UsageMetadata != nil {
		fields["prompt_tokens"] = result.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = result.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = result.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
	return text, nil
}

var _ llm.Vision = (*Client)(nil)
