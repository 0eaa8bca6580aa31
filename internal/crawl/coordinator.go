package crawl

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
	"github.com/JakeFAU/llmstxt-crawler/internal/metrics"
	"github.com/JakeFAU/llmstxt-crawler/internal/telemetry"
)

// DefaultCeiling is the number of simultaneous page fetches per job.
const DefaultCeiling = 5

// fallbackWordCount is reported for the synthetic record used when no page
// yielded content.
const fallbackWordCount = 10

// Discoverer finds the URLs to extract for a site.
type Discoverer interface {
	Discover(ctx context.Context, baseURL string, whitelist []string, maxPages int) []string
}

// Coordinator runs discovery followed by bounded concurrent extraction.
type Coordinator struct {
	discoverer Discoverer
	pages      *PageFetcher
	progress   llmstxt.ProgressReporter
	clock      llmstxt.Clock
	ceiling    int
	logger     *zap.Logger
}

// Options configures a Coordinator.
type Options struct {
	Discoverer Discoverer
	Pages      *PageFetcher
	Progress   llmstxt.ProgressReporter
	Clock      llmstxt.Clock
	// Ceiling caps simultaneous fetches; values below 1 use DefaultCeiling.
	Ceiling int
	Logger  *zap.Logger
}

// NewCoordinator validates opts and builds a Coordinator.
func NewCoordinator(opts Options) (*Coordinator, error) {
	if opts.Discoverer == nil {
		return nil, fmt.Errorf("crawl: discoverer is required")
	}
	if opts.Pages == nil {
		return nil, fmt.Errorf("crawl: page fetcher is required")
	}
	if opts.Clock == nil {
		return nil, fmt.Errorf("crawl: clock is required")
	}
	if opts.Ceiling < 1 {
		opts.Ceiling = DefaultCeiling
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		discoverer: opts.Discoverer,
		pages:      opts.Pages,
		progress:   opts.Progress,
		clock:      opts.Clock,
		ceiling:    opts.Ceiling,
		logger:     logger.Named("crawl"),
	}, nil
}

// Scrape discovers and extracts the pages of baseURL, reporting progress
// under the same key. The only error is context cancellation.
func (c *Coordinator) Scrape(ctx context.Context, baseURL string, whitelist []string, maxPages int) (site llmstxt.SiteContent, err error) {
	ctx, span := telemetry.StartSpan(ctx, "scrape", attribute.Int("max_pages", maxPages))
	defer func() {
		span.SetAttributes(attribute.Int("pages", len(site.Pages)))
		telemetry.End(span, err)
	}()

	c.report(ctx, baseURL, llmstxt.StepDiscover, llmstxt.ProgressDiscover, "Discovering pages...")
	urls := c.discoverer.Discover(ctx, baseURL, whitelist, maxPages)
	metrics.ObserveDiscovered(len(urls))
	if err := ctx.Err(); err != nil {
		return llmstxt.SiteContent{}, fmt.Errorf("discover %s: %w", baseURL, err)
	}

	c.report(ctx, baseURL, llmstxt.StepExtract, llmstxt.ProgressExtract,
		fmt.Sprintf("Extracting content from %d pages...", len(urls)))
	site = c.Crawl(ctx, baseURL, urls)
	if err := ctx.Err(); err != nil {
		return llmstxt.SiteContent{}, fmt.Errorf("extract %s: %w", baseURL, err)
	}
	return site, nil
}

// Crawl fetches every URL with at most Ceiling fetches in flight. Results keep
// discovery order; failures are dropped. When nothing is extracted a single
// fallback record for baseURL is returned.
func (c *Coordinator) Crawl(ctx context.Context, baseURL string, urls []string) llmstxt.SiteContent {
	results := make([]*llmstxt.PageRecord, len(urls))

	var g errgroup.Group
	g.SetLimit(c.ceiling)
	for i, u := range urls {
		g.Go(func() error {
			text, ok := c.pages.Fetch(ctx, u)
			if !ok {
				return nil
			}
			results[i] = &llmstxt.PageRecord{
				URL:       u,
				Content:   text,
				WordCount: len(strings.Fields(text)),
			}
			return nil
		})
	}
	_ = g.Wait()

	site := llmstxt.SiteContent{
		BaseURL:     baseURL,
		TotalPages:  len(urls),
		ExtractedAt: c.clock.Now().UTC(),
	}
	for _, rec := range results {
		if rec != nil {
			site.Pages = append(site.Pages, *rec)
		}
	}
	if len(site.Pages) == 0 {
		c.logger.Warn("no content extracted, using fallback record", zap.String("site_url", baseURL))
		site.Pages = append(site.Pages, FallbackRecord(baseURL))
	}
	c.logger.Info("extraction finished",
		zap.String("site_url", baseURL),
		zap.Int("discovered", len(urls)),
		zap.Int("extracted", len(site.Pages)),
	)
	return site
}

// FallbackRecord is the placeholder page used when a site yields no content.
func FallbackRecord(baseURL string) llmstxt.PageRecord {
	return llmstxt.PageRecord{
		URL:       baseURL,
		Content:   fmt.Sprintf("Website: %s\nNo content could be extracted from this website.", baseURL),
		WordCount: fallbackWordCount,
	}
}

func (c *Coordinator) report(ctx context.Context, key string, step llmstxt.Step, progress int, message string) {
	if c.progress == nil {
		return
	}
	if err := c.progress.Update(ctx, key, llmstxt.StatusRunning, step, progress, message); err != nil {
		c.logger.Warn("progress update failed", zap.String("site_url", key), zap.String("step", string(step)), zap.Error(err))
	}
}
