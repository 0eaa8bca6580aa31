// Package collyfetcher implements llmstxt.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

const defaultTimeout = 10 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent     string
	RespectRobots bool
	Timeout       time.Duration
}

// Fetcher implements llmstxt.Fetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher. Every Fetch clones the base collector so concurrent
// fetches never share callbacks.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := colly.NewCollector(
		colly.Async(false),
		// Discovery and extraction both fetch the seed page.
		colly.AllowURLRevisit(),
	)
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.IgnoreRobotsTxt = !cfg.RespectRobots
	c.SetRequestTimeout(cfg.Timeout)

	var transport http.RoundTripper = newHTTPTransport()
	if cfg.RespectRobots {
		transport = &robotsFailOpenTransport{base: transport}
	}
	c.WithTransport(transport)

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET, following redirects. Non-2xx responses,
// robots denials, and transport failures are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (llmstxt.FetchResponse, error) {
	var (
		result   llmstxt.FetchResponse
		fetchErr error
	)
	collector := f.baseCollector.Clone()
	f.configureCollectorHooks(collector, time.Now(), &result, &fetchErr)

	if err := f.runCollector(ctx, collector, url, &fetchErr); err != nil {
		return llmstxt.FetchResponse{}, err
	}
	if result.StatusCode < http.StatusOK || result.StatusCode >= http.StatusMultipleChoices {
		return llmstxt.FetchResponse{}, fmt.Errorf("unexpected status %d for %s", result.StatusCode, url)
	}
	return result, nil
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	start time.Time,
	result *llmstxt.FetchResponse,
	fetchErr *error,
) {
	hooks.OnResponse(func(r *colly.Response) {
		*result = llmstxt.FetchResponse{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        append([]byte(nil), r.Body...),
			Duration:    time.Since(start),
		}
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			*fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
