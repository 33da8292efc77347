package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/idea-analyzer/internal/infra/ai/prompt"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 2048
)

type Client struct {
	*openai.Client
	Model      string
	Generation domai.GenerationConfig
	Safety     []domai.SafetySetting
}

// NewClient builds a chat-completion client. baseURL is optional and points at
// an OpenAI-compatible endpoint ending in /v1.
func NewClient(apiKey, model, baseURL string, gen domai.GenerationConfig, safety []domai.SafetySetting) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	return &Client{
		Client:     openai.NewClientWithConfig(cfg),
		Model:      model,
		Generation: gen,
		Safety:     safety,
	}
}

func (c *Client) Analyze(ctx context.Context, idea string) (string, error) {
	if err := c.moderate(ctx, idea); err != nil {
		return "", err
	}

	model := c.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := c.Generation.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(idea)},
		},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens and reject sampling params.
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = c.Generation.Temperature
		req.TopP = c.Generation.TopP
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(fmt.Errorf("failed to create chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", domai.ErrEmptyResponse
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", domai.ErrEmptyResponse
	}
	return content, nil
}

// moderate checks the prompt against the configured safety thresholds.
func (c *Client) moderate(ctx context.Context, input string) error {
	if !anyBlocking(c.Safety) {
		return nil
	}
	resp, err := c.Moderations(ctx, openai.ModerationRequest{Input: input})
	if err != nil {
		return classify(fmt.Errorf("failed to run moderation: %w", err))
	}
	for _, res := range resp.Results {
		for _, s := range c.Safety {
			if score := categoryScore(res.CategoryScores, s.Category); s.Threshold.Blocks(score) {
				return fmt.Errorf("%w: %s (score %.2f)", domai.ErrBlocked, s.Category, score)
			}
		}
	}
	return nil
}

func anyBlocking(settings []domai.SafetySetting) bool {
	for _, s := range settings {
		if s.Threshold != domai.BlockNone && s.Threshold != "" {
			return true
		}
	}
	return false
}

func categoryScore(scores openai.ResultCategoryScores, category domai.HarmCategory) float32 {
	switch category {
	case domai.HarmHarassment:
		return max(scores.Harassment, scores.HarassmentThreatening)
	case domai.HarmHateSpeech:
		return max(scores.Hate, scores.HateThreatening)
	case domai.HarmSexuallyExplicit:
		return max(scores.Sexual, scores.SexualMinors)
	case domai.HarmDangerousContent:
		return max(scores.Violence, scores.ViolenceGraphic, scores.SelfHarm,
			scores.SelfHarmIntent, scores.SelfHarmInstructions)
	default:
		return 0
	}
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5")
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
	}
	return err
}
