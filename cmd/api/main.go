package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bryanwahyu/idea-analyzer/internal/application"
	appanalysis "github.com/bryanwahyu/idea-analyzer/internal/application/analysis"
	"github.com/bryanwahyu/idea-analyzer/internal/config"
	domai "github.com/bryanwahyu/idea-analyzer/internal/domain/ai"
	domain "github.com/bryanwahyu/idea-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/idea-analyzer/internal/domain/audit"
	infraai "github.com/bryanwahyu/idea-analyzer/internal/infra/ai"
	mysqlp "github.com/bryanwahyu/idea-analyzer/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/idea-analyzer/internal/infra/db/postgres"
	"github.com/bryanwahyu/idea-analyzer/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/idea-analyzer/internal/infra/storage"
	"github.com/bryanwahyu/idea-analyzer/internal/middleware"
	"github.com/bryanwahyu/idea-analyzer/web"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	checkers := map[string]middleware.HealthChecker{}

	// audit trail (optional)
	auditRepo, db, err := openAudit(ctx, cfg)
	if err != nil {
		log.Fatal("audit store init error", zap.String("driver", cfg.Audit.Driver), zap.Error(err))
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// frontend bundle (optional)
	var frontend fs.FS
	if cfg.Server.ServeFrontend {
		frontend, err = openFrontend(ctx, cfg, checkers)
		if err != nil {
			log.Fatal("frontend init error", zap.String("source", cfg.Static.Source), zap.Error(err))
		}
	}

	// AI generator, nil kalau API key kosong
	var generator domai.Client
	mode := domain.Mode(cfg.AI.Mode)
	if mode == domain.ModeLive {
		generator, err = infraai.NewClient(infraai.Provider{
			Type:       cfg.AI.Provider,
			APIKey:     cfg.AI.APIKey,
			Model:      cfg.AI.Model,
			BaseURL:    cfg.AI.BaseURL,
			Generation: cfg.AI.Generation,
			Safety:     cfg.AI.Safety,
		})
		switch {
		case errors.Is(err, infraai.ErrMissingAPIKey):
			log.Error("AI_API_KEY is not defined; every analysis will return the configuration fallback")
			generator = nil
		case err != nil:
			log.Fatal("ai client init error", zap.String("provider", cfg.AI.Provider), zap.Error(err))
		}
	}

	svc := &appanalysis.Service{
		Generator: generator,
		Mode:      mode,
		MockDelay: cfg.AI.MockDelay,
		Timeout:   cfg.AI.Timeout,
		Audit:     auditRepo,
		OnOutcome: func(o domain.Outcome) { middleware.RecordAnalysis(string(o)) },
		Clock:     application.SystemClock{},
		Log:       log.Named("analysis"),
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Frontend:       frontend,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Checkers:       checkers,
		RateCapacity:   cfg.RateLimit.Capacity,
		RateRefill:     cfg.RateLimit.RefillPerSecond,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		TrustProxy:     cfg.Server.TrustProxy,
		Log:            log.Named("http"),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Info("server listening",
			zap.String("addr", addr),
			zap.String("mode", string(mode)),
			zap.String("provider", cfg.AI.Provider),
			zap.Bool("frontend", frontend != nil),
			zap.Bool("audit", auditRepo != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

type schemaRepository interface {
	audit.Repository
	EnsureSchema(ctx context.Context) error
}

func openAudit(ctx context.Context, cfg *config.Config) (audit.Repository, *sql.DB, error) {
	var (
		db   *sql.DB
		repo schemaRepository
		err  error
	)
	switch cfg.Audit.Driver {
	case "":
		return nil, nil, nil
	case "mysql":
		if db, err = mysqlp.Connect(ctx, cfg.AuditDSN()); err != nil {
			return nil, nil, err
		}
		repo = mysqlp.NewAuditRepository(db)
	case "postgres":
		if db, err = postgresp.Connect(ctx, cfg.AuditDSN()); err != nil {
			return nil, nil, err
		}
		repo = postgresp.NewAuditRepository(db)
	default:
		return nil, nil, fmt.Errorf("unknown audit driver %q", cfg.Audit.Driver)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}

func openFrontend(ctx context.Context, cfg *config.Config, checkers map[string]middleware.HealthChecker) (fs.FS, error) {
	switch cfg.Static.Source {
	case "dir":
		return os.DirFS(cfg.Static.Dir), nil
	case "minio":
		m := cfg.Static.Minio
		store, err := minioStore.New(ctx, m.Endpoint, m.Region, m.BucketName, m.AccessKey, m.SecretKey, m.Prefix, m.UseSSL)
		if err != nil {
			return nil, err
		}
		checkers["frontend"] = store
		return store, nil
	default:
		return web.Dist(), nil
	}
}
