package crawl

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
	"github.com/JakeFAU/llmstxt-crawler/internal/metrics"
)

// PageFetcher fetches one URL and extracts its main text. Every failure is
// logged and reported as absent.
type PageFetcher struct {
	fetcher   llmstxt.Fetcher
	extractor llmstxt.TextExtractor
	logger    *zap.Logger
}

// NewPageFetcher constructs a PageFetcher.
func NewPageFetcher(fetcher llmstxt.Fetcher, extractor llmstxt.TextExtractor, logger *zap.Logger) *PageFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageFetcher{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Fetch returns the extracted text of url and whether anything was found.
func (p *PageFetcher) Fetch(ctx context.Context, url string) (string, bool) {
	p.logger.Debug("fetching page", zap.String("url", url))
	resp, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		p.logger.Warn("page fetch failed", zap.String("url", url), zap.Error(err))
		metrics.ObservePage(metrics.PageFailed)
		return "", false
	}
	text, err := p.extractor.Text(resp.Body)
	if err != nil {
		p.logger.Warn("page extraction failed", zap.String("url", url), zap.Error(err))
		metrics.ObservePage(metrics.PageFailed)
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		p.logger.Debug("page had no extractable content", zap.String("url", url))
		metrics.ObservePage(metrics.PageEmpty)
		return "", false
	}
	metrics.ObservePage(metrics.PageExtracted)
	return text, true
}
