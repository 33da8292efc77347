package ai

import (
	"errors"
	"fmt"
	"strings"

	domai "github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/idea-analyzer/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/idea-analyzer/internal/infra/ai/openai"
)

// ErrMissingAPIKey is returned when no credential is configured for the provider.
var ErrMissingAPIKey = errors.New("AI_API_KEY is not defined")

// Provider describes one configured text-generation backend.
type Provider struct {
	Type       string
	APIKey     string
	Model      string
	BaseURL    string
	Generation domai.GenerationConfig
	Safety     []domai.SafetySetting
}

// NewClient builds the client for the provider type.
func NewClient(p Provider) (domai.Client, error) {
	apiKey := strings.TrimSpace(p.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	switch normalizeProviderType(p.Type) {
	case "", "openai", "openai-compatible":
		return openai.NewClient(apiKey, p.Model, p.BaseURL, p.Generation, p.Safety), nil
	case "anthropic":
		return anthropic.NewClient(apiKey, p.Model, p.BaseURL, p.Generation, p.Safety), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", p.Type)
	}
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}
