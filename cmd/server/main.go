package main

import (
	"context"
	"crypto/ed25519"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "clausegrade/internal/adapters/http"
	"clausegrade/internal/adapters/openai"
	pg "clausegrade/internal/adapters/postgres"
	rediscache "clausegrade/internal/adapters/redis"
	"clausegrade/internal/assessment"
	"clausegrade/internal/clauses"
	"clausegrade/internal/config"
	"clausegrade/internal/extract"
	"clausegrade/internal/fetch"
	"clausegrade/internal/hybrid"
	analyzersvc "clausegrade/internal/services/analyzer"
	assesssvc "clausegrade/internal/services/assessments"
	scansvc "clausegrade/internal/services/scanner"
	scanworker "clausegrade/internal/workers/scanrunner"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := clauses.Default()
	ex, err := extract.New(reg)
	if err != nil {
		return err
	}

	opts := []analyzersvc.Option{analyzersvc.WithFetcher(fetch.New(cfg.FetchTimeout, log))}
	if cfg.OpenAIKey != "" {
		model := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.LLMTimeout)
		v, err := hybrid.New(model, reg, hybrid.DefaultConfig(), log)
		if err != nil {
			return err
		}
		opts = append(opts, analyzersvc.WithValidator(v, cfg.HybridEnabled))
		log.Info("generative validation available", "model", cfg.OpenAIModel, "default_on", cfg.HybridEnabled)
	}
	if cfg.RedisURL != "" {
		cache, err := rediscache.Connect(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return err
		}
		defer cache.Close()
		opts = append(opts, analyzersvc.WithCache(cache))
	}
	analyzer := analyzersvc.New(ex, log, opts...)

	signer, err := newSigner(cfg, log)
	if err != nil {
		return err
	}

	var (
		assessOpts []assesssvc.Option
		srvOpts    []httpadapter.Option
	)
	if cfg.DatabaseURL != "" {
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx, log); err != nil {
			return err
		}
		assessOpts = append(assessOpts, assesssvc.WithLog(db))

		scanner := scansvc.New(db, db)
		processor := scanworker.AnalysisProcessor{Jobs: db, Scans: db, Analyzer: analyzer}
		srvOpts = append(srvOpts, httpadapter.WithScans(scanner, db, processor))
		// Optional background job workers
		if cfg.ScanWorkers > 0 {
			scanworker.Run(ctx, db, processor, cfg.ScanWorkers, 500*time.Millisecond, log)
			log.Info("scan workers started", "workers", cfg.ScanWorkers)
		}
	} else {
		log.Warn("DATABASE_URL not set; scans and the assessment log are disabled")
	}
	assessor := assesssvc.New(analyzer, signer, cfg.PublicBaseURL, log, assessOpts...)

	if cfg.RateLimitRPS > 0 {
		srvOpts = append(srvOpts, httpadapter.WithRateLimiter(httpadapter.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)))
	}
	srv := httpadapter.New(analyzer, assessor, reg, log, srvOpts...)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env, "key_id", signer.KeyID(), "clauses", reg.Version())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func newSigner(cfg config.Config, log *slog.Logger) (*assessment.Signer, error) {
	var (
		key ed25519.PrivateKey
		err error
	)
	if cfg.SigningKey != "" {
		key, err = assessment.KeyFromSeed(cfg.SigningKey)
	} else {
		log.Warn("SIGNING_KEY not set; using an ephemeral key, assessments will not verify after restart")
		key, err = assessment.GenerateKey()
	}
	if err != nil {
		return nil, err
	}
	return assessment.NewSigner(key, cfg.SigningKeyID, cfg.Issuer, assessment.WithTTL(cfg.AssessmentTTL))
}
