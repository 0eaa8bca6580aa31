// Package gemini is a minimal REST client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
	defaultTimeout = 120 * time.Second
	maxErrorBody   = 4 << 10
)

// ErrMissingAPIKey is returned by Generate when no API key was configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not configured")

// Options configures a Client.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client implements llmstxt.Generator over HTTP.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	CandidateCount  int     `json:"candidateCount,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// New constructs a Client. A missing API key is reported on first use so the
// service can start without one.
func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

// Generate sends prompt as a single user turn and returns the concatenated
// text of the first candidate. An empty string with a nil error means the
// model produced no text.
func (c *Client) Generate(ctx context.Context, prompt string, opts llmstxt.GenerateOptions) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	payload := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
			CandidateCount:  1,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode gemini request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), &buf)
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", decodeError(resp)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked prompt: %s", out.PromptFeedback.BlockReason)
	}
	return extractText(out), nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

func extractText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var apiErr errorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini api error (%d %s): %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
	}
	return fmt.Errorf("gemini api error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}

var _ llmstxt.Generator = (*Client)(nil)
