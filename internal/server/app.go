// Package server builds the application's dependency graph and runs the HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/llmstxt-crawler/internal/api"
	"github.com/JakeFAU/llmstxt-crawler/internal/clock/system"
	"github.com/JakeFAU/llmstxt-crawler/internal/config"
	"github.com/JakeFAU/llmstxt-crawler/internal/crawl"
	"github.com/JakeFAU/llmstxt-crawler/internal/discovery"
	"github.com/JakeFAU/llmstxt-crawler/internal/extract"
	collyfetcher "github.com/JakeFAU/llmstxt-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/llmstxt-crawler/internal/llm/gemini"
	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
	"github.com/JakeFAU/llmstxt-crawler/internal/metrics"
	"github.com/JakeFAU/llmstxt-crawler/internal/orchestrator"
	"github.com/JakeFAU/llmstxt-crawler/internal/storage/memory"
	"github.com/JakeFAU/llmstxt-crawler/internal/synth"
	"github.com/JakeFAU/llmstxt-crawler/internal/tracker"
)

// App contains the application's dependencies.
type App struct {
	cfg          config.Config
	logger       *zap.Logger
	orchestrator *orchestrator.Orchestrator
	apiServer    *api.Server
}

// Option customizes NewApp.
type Option func(*options)

type options struct {
	generator llmstxt.Generator
	fetcher   llmstxt.Fetcher
}

// WithGenerator replaces the Gemini client.
func WithGenerator(g llmstxt.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithFetcher replaces the colly fetcher.
func WithFetcher(f llmstxt.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// NewApp wires the pipeline, tracker, and HTTP surface from cfg.
func NewApp(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	metrics.Init()

	logger.Info("creating application",
		zap.Int("server_port", cfg.Server.Port),
		zap.Int("fetch_concurrency", cfg.Crawler.FetchConcurrency),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.Bool("gemini_key_configured", cfg.Gemini.APIKey != ""),
	)
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; generation jobs will fail until it is configured")
	}

	clk := system.New()
	tr := tracker.New(memory.NewStatusStore(), clk, logger)

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = collyfetcher.New(collyfetcher.Config{
			UserAgent:     cfg.Crawler.UserAgent,
			RespectRobots: cfg.Crawler.RespectRobots,
			Timeout:       cfg.RequestTimeout(),
		})
	}
	extractor := extract.New()
	coord, err := crawl.NewCoordinator(crawl.Options{
		Discoverer: discovery.New(fetcher, extractor, logger),
		Pages:      crawl.NewPageFetcher(fetcher, extractor, logger.Named("page")),
		Progress:   tr,
		Clock:      clk,
		Ceiling:    cfg.Crawler.FetchConcurrency,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build crawl coordinator: %w", err)
	}

	generator := o.generator
	if generator == nil {
		generator = gemini.New(gemini.Options{
			APIKey:     cfg.Gemini.APIKey,
			Model:      cfg.Gemini.Model,
			BaseURL:    cfg.Gemini.BaseURL,
			HTTPClient: &http.Client{Timeout: cfg.GenerationTimeout()},
		})
	}
	s, err := synth.New(synth.Options{
		Generator:    generator,
		Progress:     tr,
		Timeout:      cfg.GenerationTimeout(),
		TemplatePath: cfg.Generation.PromptTemplatePath,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build synthesizer: %w", err)
	}

	orch, err := orchestrator.New(orchestrator.Options{
		Tracker:     tr,
		Scraper:     coord,
		Synthesizer: s,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build orchestrator: %w", err)
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		orchestrator: orch,
		apiServer:    api.NewServer(orch, tr, api.Defaults{MaxPages: cfg.Crawler.MaxPagesDefault}, logger),
	}, nil
}

// Orchestrator exposes the job orchestrator, used by the one-shot CLI.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orchestrator
}

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run serves HTTP until ctx is canceled or a termination signal arrives, then
// shuts down and waits for in-flight jobs within the shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
		close(serveErr)
	}()

	<-ctx.Done()
	a.logger.Info("shutdown initiated")

	timeout := a.cfg.ShutdownTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	a.waitForJobs(shutdownCtx)
	a.close()

	if err, ok := <-serveErr; ok && err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (a *App) waitForJobs(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		a.orchestrator.Wait()
		close(done)
	}()
	select {
	case <-done:
		a.logger.Info("in-flight jobs finished")
	case <-ctx.Done():
		a.logger.Warn("shutdown timeout reached with jobs still running")
	}
}

func (a *App) close() {
	a.logger.Info("shutdown complete")
	// Sync fails on stdout/stderr for some platforms; nothing useful to do about it.
	_ = a.logger.Sync()
}
