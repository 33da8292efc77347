package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/idea-analyzer/internal/application/analysis"
	domain "github.com/bryanwahyu/idea-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/idea-analyzer/internal/middleware"
)

const (
	defaultMaxBodyBytes = 1 << 20
	infoMessage         = "Startup Idea Analyzer API is running."
)

// Options configures the optional parts of the router.
type Options struct {
	// Frontend nil berarti API-only
	Frontend       fs.FS
	AllowedOrigins []string
	Checkers       map[string]middleware.HealthChecker
	RateCapacity   int
	RateRefill     int
	MaxBodyBytes   int64
	// TrustProxy enables chi RealIP; leave off unless a proxy sets the headers
	TrustProxy     bool
	Log            *zap.Logger
}

type Router struct {
	analyzer domain.Analyzer
	frontend fs.FS
	maxBody  int64
	log      *zap.Logger
}

func NewRouter(analyzer domain.Analyzer, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{analyzer: analyzer, frontend: opts.Frontend, maxBody: opts.MaxBodyBytes, log: log}
	if r.maxBody <= 0 {
		r.maxBody = defaultMaxBodyBytes
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	if opts.TrustProxy {
		mux.Use(chimw.RealIP)
	}
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.Recover(log))
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/ready", middleware.HealthHandler(opts.Checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.With(r.rateLimit(opts)).Post("/analyze", r.wrap(r.handleAnalyze))
		rt.NotFound(notFound)
		rt.MethodNotAllowed(methodNotAllowed)
	})

	if r.frontend != nil {
		mux.Get("/*", r.serveFrontend)
	} else {
		mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
			middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": infoMessage})
		})
	}
	mux.NotFound(notFound)
	mux.MethodNotAllowed(methodNotAllowed)

	return mux
}

func notFound(w http.ResponseWriter, req *http.Request) {
	middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf("Cannot %s %s", req.Method, req.URL.Path))
}

func methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	middleware.WriteError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Cannot %s %s", req.Method, req.URL.Path))
}

func (r *Router) rateLimit(opts Options) func(http.Handler) http.Handler {
	if opts.RateCapacity <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill)
}

// badRequest marks client errors that are not validation failures.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var vErr *domain.ValidationError
		var bad *badRequest
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &vErr):
			middleware.WriteError(w, http.StatusBadRequest, vErr.Message)
		case errors.As(err, &tooLarge):
			middleware.WriteError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds %d bytes.", tooLarge.Limit))
		case errors.As(err, &bad):
			middleware.WriteError(w, http.StatusBadRequest, bad.msg)
		default:
			r.log.Error("request failed",
				zap.String("path", req.URL.Path),
				zap.String("request_id", chimw.GetReqID(req.Context())),
				zap.Error(err),
			)
			middleware.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		}
	}
}

// POST /api/analyze
// Body: {"idea": "<text>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxBody)
	var body struct {
		Idea any `json:"idea"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &badRequest{msg: "Invalid JSON body: " + err.Error()}
	}
	idea, ok := body.Idea.(string)
	if !ok {
		return domain.ValidateIdea("")
	}

	ctx := appanalysis.WithRequestID(req.Context(), chimw.GetReqID(req.Context()))
	res, err := r.analyzer.Analyze(ctx, middleware.SanitizeString(idea))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(res.Complete())
}

// serveFrontend serves bundle files and falls back to index.html for client routes.
func (r *Router) serveFrontend(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(req.URL.Path, "/")
	if name != "" && !strings.HasSuffix(name, "/") {
		if info, err := fs.Stat(r.frontend, name); err == nil && !info.IsDir() {
			http.ServeFileFS(w, req, r.frontend, name)
			return
		}
	}
	if _, err := fs.Stat(r.frontend, "index.html"); err != nil {
		r.log.Error("frontend bundle has no index.html", zap.Error(err))
		middleware.WriteError(w, http.StatusNotFound, "Frontend bundle not found.")
		return
	}
	http.ServeFileFS(w, req, r.frontend, "index.html")
}
