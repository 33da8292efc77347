package analysis

import "strings"

// MinIdeaLength is the minimum trimmed length (in runes) of an idea.
const MinIdeaLength = 10

// Mode selects how the service produces an analysis.
type Mode string

const (
	ModeLive Mode = "live"
	ModeMock Mode = "mock"
)

// Outcome classifies how an analysis request ended.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeValidationError    Outcome = "validation_error"
	OutcomeConfigurationError Outcome = "configuration_error"
	OutcomeUpstreamError      Outcome = "upstream_error"
)

// SWOT holds the four buckets of findings.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Result is the analysis returned to clients. Error and ErrorMessage are only
// set when the payload is a fallback for a failed upstream call.
type Result struct {
	SWOT                  SWOT     `json:"swot"`
	MarketFit             string   `json:"marketFit"`
	CompetitorOverview    string   `json:"competitorOverview"`
	RefinementSuggestions []string `json:"refinementSuggestions"`
	Error                 bool     `json:"error,omitempty"`
	ErrorMessage          string   `json:"errorMessage,omitempty"`
}

// Complete replaces nil sequences with empty ones so every list encodes as a
// JSON array.
func (r *Result) Complete() *Result {
	r.SWOT.Strengths = nonNil(r.SWOT.Strengths)
	r.SWOT.Weaknesses = nonNil(r.SWOT.Weaknesses)
	r.SWOT.Opportunities = nonNil(r.SWOT.Opportunities)
	r.SWOT.Threats = nonNil(r.SWOT.Threats)
	r.RefinementSuggestions = nonNil(r.RefinementSuggestions)
	return r
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Prefix returns at most n runes of the trimmed idea, followed by "..." when
// the idea was cut.
func Prefix(idea string, n int) string {
	runes := []rune(strings.TrimSpace(idea))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
