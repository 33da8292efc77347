package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	appanalysis "github.com/bryanwahyu/idea-analyzer/internal/application/analysis"
	domain "github.com/bryanwahyu/idea-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/idea-analyzer/internal/middleware"
)

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(context.Context, string) (*domain.Result, error) {
	panic("analyzer exploded")
}

type recordingAnalyzer struct{ got string }

func (a *recordingAnalyzer) Analyze(_ context.Context, idea string) (*domain.Result, error) {
	a.got = idea
	return (&domain.Result{MarketFit: "fit"}).Complete(), nil
}

func mockRouter(opts Options) http.Handler {
	svc := &appanalysis.Service{Mode: domain.ModeMock}
	return NewRouter(svc, opts)
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorEnvelope {
	t.Helper()
	var env middleware.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestAnalyzeRejectsShortIdea(t *testing.T) {
	rec := post(t, mockRouter(Options{}), `{"idea":"short"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	want := "Startup idea is required and must be a non-empty string with at least 10 characters."
	if env.Status != "error" || env.StatusCode != 400 || env.Message != want {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestAnalyzeRejectsNonStringIdea(t *testing.T) {
	for _, body := range []string{`{"idea": 12345678901}`, `{"idea": null}`, `{}`, `{"idea": ["a long enough idea"]}`} {
		rec := post(t, mockRouter(Options{}), body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAnalyzeRejectsMalformedJSON(t *testing.T) {
	rec := post(t, mockRouter(Options{}), `{"idea":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); !strings.HasPrefix(env.Message, "Invalid JSON body") {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestAnalyzeRejectsOversizedBody(t *testing.T) {
	h := mockRouter(Options{MaxBodyBytes: 32})
	rec := post(t, h, `{"idea":"`+strings.Repeat("x", 100)+`"}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestAnalyzeMockScenario(t *testing.T) {
	idea := "An app that connects local pet sitters with busy pet owners in urban areas."
	rec := post(t, mockRouter(Options{}), `{"idea":"`+idea+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"swot", "marketFit", "competitorOverview", "refinementSuggestions"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	if _, ok := raw["error"]; ok {
		t.Errorf("successful response must not carry error flag")
	}

	var res domain.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !strings.Contains(res.SWOT.Strengths[0], "An app that connects local pet") {
		t.Errorf("strengths should echo the idea: %v", res.SWOT.Strengths)
	}
}

func TestAnalyzeSanitizesIdea(t *testing.T) {
	a := &recordingAnalyzer{}
	rec := post(t, NewRouter(a, Options{}), `{"idea":"  a\u0000 long enough idea \u0007 "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if a.got != "a long enough idea" {
		t.Errorf("analyzer got %q", a.got)
	}
}

func TestPanicBecomesEnvelope(t *testing.T) {
	rec := post(t, NewRouter(panicAnalyzer{}, Options{}), `{"idea":"a long enough idea"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.StatusCode != 500 || env.Status != "error" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestRootInfoWithoutFrontend(t *testing.T) {
	rec := httptest.NewRecorder()
	mockRouter(Options{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["message"] != "Startup Idea Analyzer API is running." {
		t.Errorf("unexpected body %v", body)
	}

	rec = httptest.NewRecorder()
	mockRouter(Options{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without frontend, got %d", rec.Code)
	}
}

func TestFrontendSPAFallback(t *testing.T) {
	bundle := fstest.MapFS{
		"index.html":    {Data: []byte("<html>app</html>")},
		"assets/app.js": {Data: []byte("console.log('hi')")},
	}
	h := mockRouter(Options{Frontend: bundle})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	for _, path := range []string{"/", "/results/42", "/assets/missing.js"} {
		rec := get(path)
		body, _ := io.ReadAll(rec.Body)
		if rec.Code != http.StatusOK || string(body) != "<html>app</html>" {
			t.Errorf("%s: got %d %q", path, rec.Code, body)
		}
	}

	rec := get("/assets/app.js")
	if body := rec.Body.String(); rec.Code != http.StatusOK || body != "console.log('hi')" {
		t.Errorf("asset: got %d %q", rec.Code, body)
	}

	rec = get("/api/unknown")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown api path: expected 404, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.StatusCode != 404 {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestAnalyzeRateLimited(t *testing.T) {
	h := mockRouter(Options{RateCapacity: 1, RateRefill: 0})
	if rec := post(t, h, `{"idea":"short"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("first request: %d", rec.Code)
	}
	rec := post(t, h, `{"idea":"short"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.StatusCode != 429 {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestRateLimitIgnoresForwardedHeadersByDefault(t *testing.T) {
	send := func(h http.Handler, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"idea":"short"}`))
		req.RemoteAddr = "192.0.2.10:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	direct := mockRouter(Options{RateCapacity: 1, RateRefill: 1})
	if code := send(direct, "203.0.113.1"); code != http.StatusBadRequest {
		t.Fatalf("first request: %d", code)
	}
	if code := send(direct, "203.0.113.2"); code != http.StatusTooManyRequests {
		t.Errorf("rotating X-Forwarded-For bypassed the limiter: %d", code)
	}

	proxied := mockRouter(Options{RateCapacity: 1, RateRefill: 1, TrustProxy: true})
	if code := send(proxied, "203.0.113.1"); code != http.StatusBadRequest {
		t.Fatalf("first proxied request: %d", code)
	}
	if code := send(proxied, "203.0.113.2"); code != http.StatusBadRequest {
		t.Errorf("trusted proxy should key on the forwarded client, got %d", code)
	}
}

func TestOperationalEndpoints(t *testing.T) {
	h := mockRouter(Options{})
	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
