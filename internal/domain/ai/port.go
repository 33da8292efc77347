package ai

import "context"

// Client asks a text-generation model to analyze one idea and returns its raw reply.
type Client interface {
	Analyze(ctx context.Context, idea string) (string, error)
}
