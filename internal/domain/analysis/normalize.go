package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
)

// rawAnalysis accepts any JSON value per field so loosely typed replies can
// still be coerced into the canonical shape.
type rawAnalysis struct {
	SWOT *struct {
		Strengths     json.RawMessage `json:"strengths"`
		Weaknesses    json.RawMessage `json:"weaknesses"`
		Opportunities json.RawMessage `json:"opportunities"`
		Threats       json.RawMessage `json:"threats"`
	} `json:"swot"`
	MarketFit             json.RawMessage `json:"marketFit"`
	CompetitorOverview    json.RawMessage `json:"competitorOverview"`
	RefinementSuggestions json.RawMessage `json:"refinementSuggestions"`
}

// StripFences removes a leading ```json (or bare ```) marker and a trailing ``` marker.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(cleaned, "```json"), strings.HasPrefix(cleaned, "```JSON"):
		cleaned = cleaned[len("```json"):]
	case strings.HasPrefix(cleaned, "```"):
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// Normalize turns a model reply into a complete Result. Any reply that is
// not a JSON object carrying at least swot or marketFit yields ErrMalformedResponse.
func Normalize(raw string) (*Result, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, ai.ErrEmptyResponse
	}

	var doc rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
		}
		doc = rawAnalysis{}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
		}
	}
	if doc.SWOT == nil && len(doc.MarketFit) == 0 {
		return nil, fmt.Errorf("%w: missing swot and marketFit", ai.ErrMalformedResponse)
	}

	res := &Result{
		MarketFit:             toText(doc.MarketFit),
		CompetitorOverview:    toText(doc.CompetitorOverview),
		RefinementSuggestions: toList(doc.RefinementSuggestions),
	}
	if doc.SWOT != nil {
		res.SWOT = SWOT{
			Strengths:     toList(doc.SWOT.Strengths),
			Weaknesses:    toList(doc.SWOT.Weaknesses),
			Opportunities: toList(doc.SWOT.Opportunities),
			Threats:       toList(doc.SWOT.Threats),
		}
	}
	return res.Complete(), nil
}

// toList accepts an array (items stringified) or a single string.
func toList(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := toText(raw); s != "" {
			return []string{s}
		}
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := toText(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// toText returns strings as-is and compacts any other JSON value.
func toText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err == nil {
		return strings.Join(items, "\n")
	}
	return strings.TrimSpace(string(raw))
}
