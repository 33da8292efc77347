package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	domai "github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/idea-analyzer/internal/infra/ai/prompt"
)

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 2048
)

// Client sends analysis prompts to the Anthropic Messages API. Content safety
// is enforced provider-side, so the configured thresholds are only echoed
// into the system prompt.
type Client struct {
	client     anthropicclient.Client
	Model      string
	Generation domai.GenerationConfig
	Safety     []domai.SafetySetting
}

func NewClient(apiKey, model, baseURL string, gen domai.GenerationConfig, safety []domai.SafetySetting) *Client {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(baseURL); base != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(base, "/")))
	}
	return &Client{
		client:     anthropicclient.NewClient(opts...),
		Model:      model,
		Generation: gen,
		Safety:     safety,
	}
}

func (c *Client) Analyze(ctx context.Context, idea string) (string, error) {
	model := strings.TrimSpace(c.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := int64(c.Generation.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropicclient.MessageNewParams{
		Model:     anthropicclient.Model(model),
		MaxTokens: maxTokens,
		System: []anthropicclient.TextBlockParam{
			{Text: prompt.GetSystemPrompt() + safetyClause(c.Safety)},
		},
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(prompt.GetUserPrompt(idea))),
		},
		Temperature: anthropicclient.Float(float64(c.Generation.Temperature)),
	}
	if c.Generation.TopK > 0 {
		params.TopK = anthropicclient.Int(int64(c.Generation.TopK))
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropicclient.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to create message: %w", err)
	}
	if msg.StopReason == "refusal" {
		return "", domai.ErrBlocked
	}

	var full strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			full.WriteString(block.Text)
		}
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", domai.ErrEmptyResponse
	}
	return text, nil
}

func safetyClause(settings []domai.SafetySetting) string {
	var blocked []string
	for _, s := range settings {
		if s.Threshold != domai.BlockNone && s.Threshold != "" {
			blocked = append(blocked, string(s.Category))
		}
	}
	if len(blocked) == 0 {
		return ""
	}
	return "\n\nRefuse to analyze ideas involving: " + strings.Join(blocked, ", ") + "."
}
