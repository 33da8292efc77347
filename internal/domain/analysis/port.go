package analysis

import "context"

// Analyzer produces an analysis for one idea. Only validation failures are
// returned as errors; upstream and configuration problems come back as
// fallback results.
type Analyzer interface {
	Analyze(ctx context.Context, idea string) (*Result, error)
}
