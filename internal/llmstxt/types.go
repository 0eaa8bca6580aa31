package llmstxt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the coarse lifecycle state of a generation job.
type Status string

// Job status values exposed to pollers.
const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Step is the fine-grained phase a job is currently in.
type Step string

// Steps in the order a job walks through them. StepError is terminal and can
// follow any other step.
const (
	StepStart     Step = "start"
	StepDiscover  Step = "discover"
	StepExtract   Step = "extract"
	StepSummarize Step = "summarize"
	StepCompose   Step = "compose"
	StepValidate  Step = "validate"
	StepDone      Step = "done"
	StepError     Step = "error"
)

// Progress markers recorded when a step begins.
const (
	ProgressStart     = 0
	ProgressDiscover  = 10
	ProgressExtract   = 30
	ProgressSummarize = 60
	ProgressCompose   = 80
	ProgressValidate  = 90
	ProgressDone      = 100
)

// Request defaults mirrored by the HTTP surface and the CLI.
const (
	DefaultMaxPages = 50
	LanguageAuto    = "auto"
)

// GenerationConfig is the immutable input of one generation request.
type GenerationConfig struct {
	SiteURL          string `json:"siteUrl"`
	Extras           string `json:"extras"`
	MaxPages         int    `json:"maxPages"`
	Language         string `json:"language"`
	StrictMode       bool   `json:"strictMode"`
	IncludeOptional  bool   `json:"includeOptional"`
	WhitelistDomains string `json:"whitelistDomains"`
}

// Whitelist splits WhitelistDomains on commas, trimming and lowercasing each
// entry. Empty entries are dropped.
func (c GenerationConfig) Whitelist() []string {
	if strings.TrimSpace(c.WhitelistDomains) == "" {
		return nil
	}
	parts := strings.Split(c.WhitelistDomains, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		d := strings.ToLower(strings.TrimSpace(p))
		if d == "" {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ErrInvalidMaxPages is returned when MaxPages is below 1.
var ErrInvalidMaxPages = errors.New("maxPages must be at least 1")

// Normalize validates c and returns a copy with a canonical site URL and
// language selector.
func (c GenerationConfig) Normalize() (GenerationConfig, error) {
	site, err := NormalizeSiteURL(c.SiteURL)
	if err != nil {
		return GenerationConfig{}, err
	}
	if c.MaxPages < 1 {
		return GenerationConfig{}, ErrInvalidMaxPages
	}
	lang, err := NormalizeLanguage(c.Language)
	if err != nil {
		return GenerationConfig{}, err
	}
	c.SiteURL = site
	c.Language = lang
	return c, nil
}

// PageRecord is the extracted text of one successfully processed page.
type PageRecord struct {
	URL       string `json:"url"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
}

// SiteContent is everything the crawl produced for one site.
type SiteContent struct {
	BaseURL     string       `json:"base_url"`
	Pages       []PageRecord `json:"pages"`
	TotalPages  int          `json:"total_pages"`
	ExtractedAt time.Time    `json:"extracted_at"`
}

// JobStatus is the latest snapshot of a generation job.
type JobStatus struct {
	Status    Status    `json:"status"`
	Step      Step      `json:"step"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content,omitempty"`
}

// Running reports whether the job is still in flight.
func (j JobStatus) Running() bool {
	return j.Status == StatusRunning
}

// Validate enforces the invariants every stored snapshot must hold.
func (j JobStatus) Validate() error {
	switch j.Status {
	case StatusRunning:
	case StatusCompleted:
		if strings.TrimSpace(j.Content) == "" {
			return errors.New("completed job requires document content")
		}
	case StatusError:
		if j.Content != "" {
			return errors.New("failed job must not carry document content")
		}
	default:
		return fmt.Errorf("unknown status %q", j.Status)
	}
	if j.Progress < 0 || j.Progress > 100 {
		return fmt.Errorf("progress %d out of range", j.Progress)
	}
	return nil
}
