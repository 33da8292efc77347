package analysis

import (
	"context"
	"time"

	domain "github.com/bryanwahyu/idea-analyzer/internal/domain/analysis"
)

const (
	mockSWOTPrefix      = 30
	mockNarrativePrefix = 50
)

// mock waits for the configured delay and returns a canned analysis that
// echoes the idea. Output depends only on the idea.
func (s *Service) mock(ctx context.Context, idea string) (*domain.Result, error) {
	if s.MockDelay > 0 {
		timer := time.NewTimer(s.MockDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return MockResult(idea), nil
}

// MockResult builds the deterministic mock analysis for idea.
func MockResult(idea string) *domain.Result {
	short := domain.Prefix(idea, mockSWOTPrefix)
	long := domain.Prefix(idea, mockNarrativePrefix)
	return &domain.Result{
		SWOT: domain.SWOT{
			Strengths: []string{
				"Innovative concept for: " + short,
				"Strong potential for early adopters",
			},
			Weaknesses: []string{
				"Potential scalability challenges for: " + short,
				"Requires significant initial investment",
			},
			Opportunities: []string{
				"Growing market demand in the target segment",
				"Partnerships with complementary services for: " + short,
			},
			Threats: []string{
				"Established competitors with more resources",
				"Changing regulations affecting: " + short,
			},
		},
		MarketFit: "The idea \"" + long + "\" addresses a real need for its target users. " +
			"Validate demand with a small pilot before scaling.",
		CompetitorOverview: "Existing players partially cover the problem behind \"" + long + "\". " +
			"Differentiation will depend on user experience and pricing.",
		RefinementSuggestions: []string{
			"To refine \"" + long + "\", narrow the initial target audience.",
			"Run customer interviews to validate willingness to pay.",
			"Define a minimum viable product and key success metrics.",
		},
	}
}
