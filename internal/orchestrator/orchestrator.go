// Package orchestrator drives generation jobs through discovery, extraction,
// synthesis, and validation, recording every phase on the tracker.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
	"github.com/JakeFAU/llmstxt-crawler/internal/metrics"
	"github.com/JakeFAU/llmstxt-crawler/internal/telemetry"
	"github.com/JakeFAU/llmstxt-crawler/internal/tracker"
)

// MinDocumentChars is the minimum trimmed length of an accepted document.
const MinDocumentChars = 100

// ErrAlreadyRunning is returned by Start when the site already has a job in flight.
var ErrAlreadyRunning = errors.New("generation already in progress")

// Scraper discovers and extracts a site's pages.
type Scraper interface {
	Scrape(ctx context.Context, baseURL string, whitelist []string, maxPages int) (llmstxt.SiteContent, error)
}

// Synthesizer turns site content into a document.
type Synthesizer interface {
	Synthesize(ctx context.Context, key string, site llmstxt.SiteContent, cfg llmstxt.GenerationConfig) (string, error)
}

// Options configures an Orchestrator.
type Options struct {
	Tracker     *tracker.Tracker
	Scraper     Scraper
	Synthesizer Synthesizer
	Logger      *zap.Logger
}

// Orchestrator runs one goroutine per admitted job.
type Orchestrator struct {
	tracker *tracker.Tracker
	scraper Scraper
	synth   Synthesizer
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// New validates opts and builds an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Tracker == nil {
		return nil, errors.New("orchestrator: tracker is required")
	}
	if opts.Scraper == nil {
		return nil, errors.New("orchestrator: scraper is required")
	}
	if opts.Synthesizer == nil {
		return nil, errors.New("orchestrator: synthesizer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		tracker: opts.Tracker,
		scraper: opts.Scraper,
		synth:   opts.Synthesizer,
		logger:  logger.Named("orchestrator"),
	}, nil
}

// Start admits a job for cfg and runs it in the background. It returns the
// normalized site key. The background task is detached from ctx so it
// outlives the request that started it.
func (o *Orchestrator) Start(ctx context.Context, cfg llmstxt.GenerationConfig) (string, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return "", err
	}
	key := cfg.SiteURL
	ok, err := o.tracker.Begin(ctx, key)
	if err != nil {
		return key, fmt.Errorf("record start: %w", err)
	}
	if !ok {
		return key, ErrAlreadyRunning
	}

	o.logger.Info("generation started", zap.String("site_url", key), zap.Int("max_pages", cfg.MaxPages))
	jobCtx := context.WithoutCancel(ctx)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.execute(jobCtx, key, cfg)
	}()
	return key, nil
}

// Generate runs the whole pipeline synchronously and returns the document.
// Progress is still recorded on the tracker.
func (o *Orchestrator) Generate(ctx context.Context, cfg llmstxt.GenerationConfig) (string, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return "", err
	}
	key := cfg.SiteURL
	ok, err := o.tracker.Begin(ctx, key)
	if err != nil {
		return "", fmt.Errorf("record start: %w", err)
	}
	if !ok {
		return "", ErrAlreadyRunning
	}
	outcome := o.execute(ctx, key, cfg)
	return outcome.Document, outcome.Err
}

// Wait blocks until every background job has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) execute(ctx context.Context, key string, cfg llmstxt.GenerationConfig) llmstxt.Outcome {
	metrics.IncActiveJobs()
	defer metrics.DecActiveJobs()

	ctx, span := telemetry.StartSpan(ctx, "generation",
		attribute.String("site_url", key),
		attribute.Int("max_pages", cfg.MaxPages),
	)
	outcome := o.run(ctx, key, cfg)
	telemetry.End(span, outcome.Err)
	if err := o.tracker.Finish(ctx, key, outcome); err != nil {
		o.logger.Error("record outcome failed", zap.String("site_url", key), zap.Error(err))
	}
	if outcome.Err != nil {
		failure := llmstxt.AsFailure(outcome.Err)
		metrics.ObserveJob(string(failure.Kind))
		o.logger.Error("generation failed",
			zap.String("site_url", key),
			zap.String("kind", string(failure.Kind)),
			zap.String("trace_id", telemetry.TraceID(ctx)),
			zap.Error(outcome.Err),
		)
		return outcome
	}
	metrics.ObserveJob("completed")
	o.logger.Info("generation completed",
		zap.String("site_url", key),
		zap.String("trace_id", telemetry.TraceID(ctx)),
		zap.Int("chars", utf8.RuneCountInString(outcome.Document)),
	)
	return outcome
}

// run executes the phases in order. Panics become internal failures.
func (o *Orchestrator) run(ctx context.Context, key string, cfg llmstxt.GenerationConfig) (outcome llmstxt.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = llmstxt.Outcome{Err: llmstxt.NewFailure(llmstxt.FailureInternal, fmt.Errorf("panic: %v", r))}
		}
	}()

	site, err := o.scraper.Scrape(ctx, key, cfg.Whitelist(), cfg.MaxPages)
	if err != nil {
		return llmstxt.Outcome{Err: llmstxt.AsFailure(err)}
	}

	doc, err := o.synth.Synthesize(ctx, key, site, cfg)
	if err != nil {
		return llmstxt.Outcome{Err: err}
	}

	if err := o.tracker.Update(ctx, key, llmstxt.StatusRunning, llmstxt.StepValidate, llmstxt.ProgressValidate, "Validating output..."); err != nil {
		o.logger.Warn("progress update failed", zap.String("site_url", key), zap.Error(err))
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(doc)); n < MinDocumentChars {
		return llmstxt.Outcome{Err: llmstxt.NewFailure(llmstxt.FailureTooShort, fmt.Errorf("document has %d characters, need %d", n, MinDocumentChars))}
	}
	return llmstxt.Outcome{Document: doc}
}
