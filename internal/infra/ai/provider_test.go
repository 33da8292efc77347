package ai

import (
	"errors"
	"testing"

	"github.com/bryanwahyu/idea-analyzer/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/idea-analyzer/internal/infra/ai/openai"
)

func TestNewClientMissingKey(t *testing.T) {
	_, err := NewClient(Provider{Type: "openai", APIKey: "  "})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewClientSelectsProvider(t *testing.T) {
	c, err := NewClient(Provider{Type: "OpenAI_Compatible", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, ok := c.(*openai.Client); !ok {
		t.Errorf("expected openai client, got %T", c)
	}

	c, err = NewClient(Provider{Type: "anthropic", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, ok := c.(*anthropic.Client); !ok {
		t.Errorf("expected anthropic client, got %T", c)
	}

	if _, err := NewClient(Provider{Type: "gemini", APIKey: "k"}); err == nil {
		t.Errorf("expected error for unsupported provider")
	}
}
