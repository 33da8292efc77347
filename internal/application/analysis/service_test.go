package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bryanwahyu/idea-analyzer/internal/application"
	domai "github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
	domain "github.com/bryanwahyu/idea-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/idea-analyzer/internal/domain/audit"
)

type fakeGenerator struct {
	reply string
	err   error
	calls int
	block bool
}

func (f *fakeGenerator) Analyze(ctx context.Context, idea string) (string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

type memAudit struct {
	mu      sync.Mutex
	records []*audit.Record
}

func (m *memAudit) Save(_ context.Context, r *audit.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

const petSitter = "An app that connects local pet sitters with busy pet owners in urban areas."

func TestAnalyzeRejectsShortIdea(t *testing.T) {
	gen := &fakeGenerator{reply: `{"marketFit":"x"}`}
	var outcomes []domain.Outcome
	svc := &Service{Generator: gen, OnOutcome: func(o domain.Outcome) { outcomes = append(outcomes, o) }}

	for _, idea := range []string{"", "   ", "short", "  123456789  "} {
		res, err := svc.Analyze(t.Context(), idea)
		if res != nil {
			t.Errorf("%q: expected no result", idea)
		}
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%q: expected ValidationError, got %v", idea, err)
		}
		if !strings.Contains(vErr.Message, "at least 10 characters") {
			t.Errorf("unexpected message %q", vErr.Message)
		}
	}
	if gen.calls != 0 {
		t.Errorf("generator must not be called, got %d calls", gen.calls)
	}
	if len(outcomes) != 4 || outcomes[0] != domain.OutcomeValidationError {
		t.Errorf("unexpected outcomes %v", outcomes)
	}
}

func TestAnalyzeMockIsDeterministic(t *testing.T) {
	gen := &fakeGenerator{}
	svc := &Service{Mode: domain.ModeMock, Generator: gen}

	first, err := svc.Analyze(t.Context(), petSitter)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := svc.Analyze(t.Context(), petSitter)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("mock output differs between calls")
	}
	if gen.calls != 0 {
		t.Errorf("mock mode must not call the generator")
	}
	if first.Error {
		t.Errorf("mock result must not be flagged as error")
	}
	if !strings.Contains(first.SWOT.Strengths[0], "An app that connects local pet...") {
		t.Errorf("strength does not echo the 30-rune prefix: %q", first.SWOT.Strengths[0])
	}
	if !strings.Contains(first.MarketFit, domain.Prefix(petSitter, 50)) {
		t.Errorf("market fit does not echo the 50-rune prefix: %q", first.MarketFit)
	}
}

func TestMockResultEchoesIdeaEverywhere(t *testing.T) {
	idea := "A platform connecting pet sitters with busy urban professionals"
	short := domain.Prefix(idea, 30)
	long := domain.Prefix(idea, 50)
	res := MockResult(idea)

	lists := map[string]struct {
		items []string
		want  string
	}{
		"strengths":             {res.SWOT.Strengths, short},
		"weaknesses":            {res.SWOT.Weaknesses, short},
		"opportunities":         {res.SWOT.Opportunities, short},
		"threats":               {res.SWOT.Threats, short},
		"refinementSuggestions": {res.RefinementSuggestions, long},
	}
	for name, tc := range lists {
		if !containsAny(tc.items, tc.want) {
			t.Errorf("%s does not echo %q: %q", name, tc.want, tc.items)
		}
	}
	if !strings.Contains(res.MarketFit, long) {
		t.Errorf("marketFit does not echo %q: %q", long, res.MarketFit)
	}
	if !strings.Contains(res.CompetitorOverview, long) {
		t.Errorf("competitorOverview does not echo %q: %q", long, res.CompetitorOverview)
	}
}

func containsAny(items []string, sub string) bool {
	for _, it := range items {
		if strings.Contains(it, sub) {
			return true
		}
	}
	return false
}

func TestAnalyzeMockDelayHonoursContext(t *testing.T) {
	svc := &Service{Mode: domain.ModeMock, MockDelay: time.Hour}
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	res, err := svc.Analyze(ctx, petSitter)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.Error {
		t.Errorf("expected fallback flagged as error after cancellation")
	}
}

func TestAnalyzeWithoutCredentials(t *testing.T) {
	var outcome domain.Outcome
	svc := &Service{OnOutcome: func(o domain.Outcome) { outcome = o }}

	res, err := svc.Analyze(t.Context(), petSitter)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(res, domain.ConfigurationFallback()) {
		t.Errorf("expected configuration fallback, got %+v", res)
	}
	if outcome != domain.OutcomeConfigurationError {
		t.Errorf("expected configuration outcome, got %q", outcome)
	}
}

func TestAnalyzeLiveSuccess(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + `{
		"swot": {"strengths": ["Demand"], "weaknesses": [], "opportunities": ["Cities"], "threats": ["Rover"]},
		"marketFit": "Good fit.",
		"competitorOverview": "Rover, Wag.",
		"refinementSuggestions": ["Start in one city."]
	}` + "\n```"}
	svc := &Service{Generator: gen}

	res, err := svc.Analyze(t.Context(), petSitter)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Error || res.ErrorMessage != "" {
		t.Errorf("successful result must not carry error fields: %+v", res)
	}
	if res.MarketFit != "Good fit." || res.SWOT.Threats[0] != "Rover" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.SWOT.Weaknesses == nil {
		t.Errorf("weaknesses should be an empty slice")
	}
	if gen.calls != 1 {
		t.Errorf("expected exactly one upstream call, got %d", gen.calls)
	}
}

func TestAnalyzeUpstreamFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		want string
	}{
		{"quota", &fakeGenerator{err: domai.ErrQuotaExceeded}, "quota"},
		{"unparseable", &fakeGenerator{reply: "I cannot help with that."}, "invalid JSON"},
		{"missing fields", &fakeGenerator{reply: `{"foo": 1}`}, "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{Generator: tt.gen}
			res, err := svc.Analyze(t.Context(), petSitter)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if !res.Error {
				t.Fatalf("expected error flag")
			}
			if !strings.Contains(res.ErrorMessage, tt.want) {
				t.Errorf("errorMessage %q does not mention %q", res.ErrorMessage, tt.want)
			}
			if len(res.SWOT.Strengths) == 0 || res.MarketFit == "" || len(res.RefinementSuggestions) == 0 {
				t.Errorf("fallback must populate every field: %+v", res)
			}
		})
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	svc := &Service{Generator: &fakeGenerator{block: true}, Timeout: 10 * time.Millisecond}
	res, err := svc.Analyze(t.Context(), petSitter)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.Error || !strings.Contains(res.ErrorMessage, "timed out") {
		t.Errorf("expected timeout fallback, got %+v", res)
	}
}

func TestAnalyzeWritesAuditWithoutIdea(t *testing.T) {
	store := &memAudit{}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &Service{
		Mode:  domain.ModeMock,
		Audit: store,
		Clock: application.FixedClock{T: now},
	}
	if _, err := svc.Analyze(t.Context(), petSitter); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(store.records))
	}
	rec := store.records[0]
	if rec.ID == "" || rec.Mode != "mock" || rec.Outcome != "ok" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.IdeaLength != len([]rune(petSitter)) || !rec.CreatedAt.Equal(now) {
		t.Errorf("unexpected record %+v", rec)
	}
	if strings.Contains(rec.ErrorMessage, "pet") {
		t.Errorf("audit record must not carry idea text")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(t.Context(), "req-1")
	if id, ok := RequestIDFrom(ctx); !ok || id != "req-1" {
		t.Errorf("got %q %v", id, ok)
	}
	if _, ok := RequestIDFrom(WithRequestID(t.Context(), "")); ok {
		t.Errorf("empty id must not be stored")
	}
}
