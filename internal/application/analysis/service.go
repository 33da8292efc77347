package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/idea-analyzer/internal/application"
	domai "github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
	domain "github.com/bryanwahyu/idea-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/idea-analyzer/internal/domain/audit"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultMockDelay = 2 * time.Second

	logPrefixLength = 50
)

// Service implements the analyze use-case.
// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	// Generator nil berarti API key tidak ada, semua request dapat configuration fallback
	Generator domai.Client
	Mode      domain.Mode
	MockDelay time.Duration
	Timeout   time.Duration

	// Audit optional
	Audit     audit.Repository
	OnOutcome func(domain.Outcome)
	Clock     application.Clock
	Log       *zap.Logger
}

// Analyze validates the idea and produces an analysis. The only error it
// returns is a *domain.ValidationError; upstream and configuration failures
// are folded into fallback results.
func (s *Service) Analyze(ctx context.Context, idea string) (*domain.Result, error) {
	start := s.now()
	log := s.logger().With(zap.String("idea_prefix", domain.Prefix(idea, logPrefixLength)))
	if id, ok := RequestIDFrom(ctx); ok {
		log = log.With(zap.String("request_id", id))
	}

	if err := domain.ValidateIdea(idea); err != nil {
		log.Info("analysis rejected", zap.Error(err))
		s.finish(ctx, start, idea, domain.OutcomeValidationError, err)
		return nil, err
	}

	if s.Mode == domain.ModeMock {
		res, err := s.mock(ctx, idea)
		if err != nil {
			log.Warn("mock analysis interrupted", zap.Error(err))
			s.finish(ctx, start, idea, domain.OutcomeUpstreamError, err)
			return domain.UpstreamFallback(err), nil
		}
		log.Info("mock analysis generated", zap.Duration("latency", s.now().Sub(start)))
		s.finish(ctx, start, idea, domain.OutcomeOK, nil)
		return res, nil
	}

	if s.Generator == nil {
		cfgErr := &domain.ConfigurationError{Reason: "API key missing or invalid"}
		log.Error("analysis unavailable", zap.Error(cfgErr))
		s.finish(ctx, start, idea, domain.OutcomeConfigurationError, cfgErr)
		return domain.ConfigurationFallback(), nil
	}

	res, err := s.live(ctx, idea)
	if err != nil {
		log.Error("upstream analysis failed",
			zap.Error(err),
			zap.Bool("quota_exceeded", errors.Is(err, domai.ErrQuotaExceeded)),
			zap.Bool("blocked", errors.Is(err, domai.ErrBlocked)),
			zap.Duration("latency", s.now().Sub(start)),
		)
		s.finish(ctx, start, idea, domain.OutcomeUpstreamError, err)
		return domain.UpstreamFallback(err), nil
	}
	log.Info("analysis generated", zap.Duration("latency", s.now().Sub(start)))
	s.finish(ctx, start, idea, domain.OutcomeOK, nil)
	return res, nil
}

func (s *Service) live(ctx context.Context, idea string) (*domain.Result, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := s.Generator.Analyze(callCtx, idea)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, &domain.UpstreamError{Err: fmt.Errorf("AI request timed out after %s: %w", timeout, err)}
		}
		return nil, &domain.UpstreamError{Err: err}
	}
	res, err := domain.Normalize(raw)
	if err != nil {
		return nil, &domain.UpstreamError{Err: err}
	}
	return res, nil
}

// finish reports the outcome to metrics and the audit trail.
func (s *Service) finish(ctx context.Context, start time.Time, idea string, outcome domain.Outcome, cause error) {
	if s.OnOutcome != nil {
		s.OnOutcome(outcome)
	}
	if s.Audit == nil {
		return
	}
	rec := &audit.Record{
		ID:         audit.RecordID(uuid.NewString()),
		Mode:       string(s.mode()),
		Outcome:    string(outcome),
		IdeaLength: len([]rune(idea)),
		LatencyMS:  s.now().Sub(start).Milliseconds(),
		CreatedAt:  s.now().UTC(),
	}
	if cause != nil {
		rec.ErrorMessage = cause.Error()
	}
	// audit jalan walaupun request sudah di-cancel client
	if err := s.Audit.Save(context.WithoutCancel(ctx), rec); err != nil {
		s.logger().Warn("failed to save audit record", zap.String("audit_id", string(rec.ID)), zap.Error(err))
	}
}

func (s *Service) mode() domain.Mode {
	if s.Mode == "" {
		return domain.ModeLive
	}
	return s.Mode
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
