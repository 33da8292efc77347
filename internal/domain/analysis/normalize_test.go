package analysis

import (
	"errors"
	"testing"

	"github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
)

const validReply = `{
  "swot": {
    "strengths": ["fast", "cheap"],
    "weaknesses": ["niche"],
    "opportunities": ["cities"],
    "threats": ["incumbents"]
  },
  "marketFit": "Strong in dense cities.",
  "competitorOverview": "Rover and Wag.",
  "refinementSuggestions": ["Start in one city", "Vet sitters"]
}`

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{}\n```":  "{}",
		"```JSON{}```":      "{}",
		"```\n{}\n```":      "{}",
		"  {}  ":            "{}",
		"{}\n```":           "{}",
		"```json\n{\"a\":1}": `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeFencedReply(t *testing.T) {
	for _, raw := range []string{validReply, "```json\n" + validReply + "\n```", "Here you go:\n" + validReply + "\nThanks!"} {
		res, err := Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if len(res.SWOT.Strengths) != 2 || res.SWOT.Strengths[0] != "fast" {
			t.Errorf("strengths: got %v", res.SWOT.Strengths)
		}
		if res.MarketFit != "Strong in dense cities." {
			t.Errorf("marketFit: got %q", res.MarketFit)
		}
		if len(res.RefinementSuggestions) != 2 {
			t.Errorf("suggestions: got %v", res.RefinementSuggestions)
		}
		if res.Error {
			t.Errorf("error flag should not be set")
		}
	}
}

func TestNormalizeCoercesLooseTypes(t *testing.T) {
	raw := `{"swot":{"strengths":"only one","weaknesses":[1, {"k":"v"}, ""],"threats":null},
	"marketFit":["line a","line b"],"refinementSuggestions":"Do X"}`
	res, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.SWOT.Strengths) != 1 || res.SWOT.Strengths[0] != "only one" {
		t.Errorf("strengths: got %v", res.SWOT.Strengths)
	}
	if len(res.SWOT.Weaknesses) != 2 || res.SWOT.Weaknesses[0] != "1" || res.SWOT.Weaknesses[1] != `{"k":"v"}` {
		t.Errorf("weaknesses: got %v", res.SWOT.Weaknesses)
	}
	if res.SWOT.Threats == nil || res.SWOT.Opportunities == nil {
		t.Errorf("missing buckets should be empty, not nil")
	}
	if res.MarketFit != "line a\nline b" {
		t.Errorf("marketFit: got %q", res.MarketFit)
	}
	if len(res.RefinementSuggestions) != 1 || res.RefinementSuggestions[0] != "Do X" {
		t.Errorf("suggestions: got %v", res.RefinementSuggestions)
	}
}

func TestNormalizeRejectsUnusableReplies(t *testing.T) {
	cases := map[string]error{
		"":                        ai.ErrEmptyResponse,
		"```json\n```":            ai.ErrEmptyResponse,
		"I cannot help with that": ai.ErrMalformedResponse,
		"[1,2,3]":                 ai.ErrMalformedResponse,
		`{"foo":"bar"}`:           ai.ErrMalformedResponse,
		`{"swot": {"strengths": [`: ai.ErrMalformedResponse,
	}
	for raw, want := range cases {
		_, err := Normalize(raw)
		if !errors.Is(err, want) {
			t.Errorf("Normalize(%q): got %v, want %v", raw, err, want)
		}
	}
}
