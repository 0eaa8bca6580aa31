// Package synth turns crawled site content into an llms.txt document by
// prompting a language model.
package synth

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"text/template"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
	"github.com/JakeFAU/llmstxt-crawler/internal/metrics"
	"github.com/JakeFAU/llmstxt-crawler/internal/telemetry"
)

// Sampling parameters used for every generation call.
const (
	Temperature     = 0.3
	MaxOutputTokens = 4000
)

const defaultTimeout = 120 * time.Second

//go:embed prompt.tmpl
var defaultPrompt string

// Options configures a Synthesizer.
type Options struct {
	Generator llmstxt.Generator
	Progress  llmstxt.ProgressReporter
	// Timeout bounds each generation call; zero uses 120s.
	Timeout time.Duration
	// TemplatePath overrides the embedded prompt template when set.
	TemplatePath string
	Logger       *zap.Logger
}

// Synthesizer builds the instruction prompt and calls the language model.
type Synthesizer struct {
	gen      llmstxt.Generator
	progress llmstxt.ProgressReporter
	timeout  time.Duration
	tmpl     *template.Template
	logger   *zap.Logger
}

type promptData struct {
	BaseURL         string
	TotalPages      int
	Language        string
	LanguageName    string
	AutoLanguage    bool
	StrictMode      bool
	IncludeOptional bool
	Extras          string
	Content         string
}

// New parses the prompt template and builds a Synthesizer.
func New(opts Options) (*Synthesizer, error) {
	if opts.Generator == nil {
		return nil, errors.New("synth: generator is required")
	}
	text := defaultPrompt
	if opts.TemplatePath != "" {
		raw, err := os.ReadFile(opts.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("read prompt template: %w", err)
		}
		text = string(raw)
	}
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		gen:      opts.Generator,
		progress: opts.Progress,
		timeout:  opts.Timeout,
		tmpl:     tmpl,
		logger:   logger.Named("synth"),
	}, nil
}

// BuildPrompt renders the instruction text for site under cfg.
func (s *Synthesizer) BuildPrompt(site llmstxt.SiteContent, cfg llmstxt.GenerationConfig) (string, error) {
	lang := cfg.Language
	if lang == "" {
		lang = llmstxt.LanguageAuto
	}
	data := promptData{
		BaseURL:         site.BaseURL,
		TotalPages:      site.TotalPages,
		Language:        lang,
		LanguageName:    llmstxt.LanguageName(lang),
		AutoLanguage:    lang == llmstxt.LanguageAuto,
		StrictMode:      cfg.StrictMode,
		IncludeOptional: cfg.IncludeOptional,
		Extras:          cfg.Extras,
		Content:         Aggregate(site),
	}
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Synthesize asks the language model for the document. Failures are returned
// as *llmstxt.Failure values.
func (s *Synthesizer) Synthesize(ctx context.Context, key string, site llmstxt.SiteContent, cfg llmstxt.GenerationConfig) (string, error) {
	s.report(ctx, key, llmstxt.StepSummarize, llmstxt.ProgressSummarize, "Analyzing content with Gemini AI...")

	prompt, err := s.BuildPrompt(site, cfg)
	if err != nil {
		return "", llmstxt.NewFailure(llmstxt.FailureInternal, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	callCtx, span := telemetry.StartSpan(callCtx, "llm.generate", attribute.Int("prompt_chars", len(prompt)))
	start := time.Now()
	reply, err := s.gen.Generate(callCtx, prompt, llmstxt.GenerateOptions{
		Temperature:     Temperature,
		MaxOutputTokens: MaxOutputTokens,
	})
	elapsed := time.Since(start)
	telemetry.End(span, err)
	switch {
	case err != nil && (isTimeout(err) || errors.Is(callCtx.Err(), context.DeadlineExceeded)):
		metrics.ObserveLLMRequest("timeout", elapsed)
		s.logger.Error("generation timed out", zap.String("site_url", key), zap.Duration("timeout", s.timeout), zap.Error(err))
		return "", llmstxt.NewFailure(llmstxt.FailureTimeout, err)
	case err != nil:
		metrics.ObserveLLMRequest("error", elapsed)
		s.logger.Error("generation failed", zap.String("site_url", key), zap.Error(err))
		return "", llmstxt.NewFailure(llmstxt.FailureGeneration, err)
	}

	doc := strings.TrimSpace(reply)
	if doc == "" {
		metrics.ObserveLLMRequest("empty", elapsed)
		s.logger.Error("generation returned empty response", zap.String("site_url", key))
		return "", llmstxt.NewFailure(llmstxt.FailureEmptyResponse, errors.New("empty response"))
	}
	metrics.ObserveLLMRequest("ok", elapsed)

	s.report(ctx, key, llmstxt.StepCompose, llmstxt.ProgressCompose, "Composing final llms.txt...")
	return doc, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (s *Synthesizer) report(ctx context.Context, key string, step llmstxt.Step, progress int, message string) {
	if s.progress == nil {
		return
	}
	if err := s.progress.Update(ctx, key, llmstxt.StatusRunning, step, progress, message); err != nil {
		s.logger.Warn("progress update failed", zap.String("site_url", key), zap.String("step", string(step)), zap.Error(err))
	}
}
