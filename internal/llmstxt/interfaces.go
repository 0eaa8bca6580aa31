package llmstxt

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a key has no status record.
var ErrNotFound = errors.New("generation not found")

// StatusStore holds the latest JobStatus per site key.
type StatusStore interface {
	// Put overwrites the record for key.
	Put(ctx context.Context, key string, status JobStatus) error
	// PutIfIdle stores status unless the current record for key is running.
	// It reports whether the write happened.
	PutIfIdle(ctx context.Context, key string, status JobStatus) (bool, error)
	Get(ctx context.Context, key string) (JobStatus, error)
	Delete(ctx context.Context, key string) error
}

// ProgressReporter receives phase transitions from the pipeline stages.
type ProgressReporter interface {
	Update(ctx context.Context, key string, status Status, step Step, progress int, message string) error
}

// FetchResponse is the raw result of a single page fetch.
type FetchResponse struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

// Fetcher performs one GET with redirects and a per-request timeout. Non-2xx
// responses are returned as errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResponse, error)
}

// TextExtractor pulls the main readable text out of a page body.
type TextExtractor interface {
	Text(body []byte) (string, error)
}

// LinkParser returns the raw href values found on a page.
type LinkParser interface {
	Links(body []byte) ([]string, error)
}

// GenerateOptions are the sampling parameters passed to the language model.
type GenerateOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// Generator is the external text-in/text-out language model.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
