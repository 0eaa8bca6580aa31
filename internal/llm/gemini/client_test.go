package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

func TestGenerateSendsPromptAndOptions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Equal(t, "user", body.Contents[0].Role)
		require.Equal(t, "hello", body.Contents[0].Parts[0].Text)
		require.InDelta(t, 0.3, body.GenerationConfig.Temperature, 1e-9)
		require.Equal(t, 4000, body.GenerationConfig.MaxOutputTokens)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"# Acme"},{"text":"\n> Widgets"}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	c := New(Options{APIKey: "secret", Model: "gemini-test", BaseURL: srv.URL + "/"})
	got, err := c.Generate(context.Background(), "hello", llmstxt.GenerateOptions{Temperature: 0.3, MaxOutputTokens: 4000})
	require.NoError(t, err)
	require.Equal(t, "# Acme\n> Widgets", got)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(Options{}).Generate(context.Background(), "hello", llmstxt.GenerateOptions{})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerateAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(Options{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "p", llmstxt.GenerateOptions{})
	require.ErrorContains(t, err, "quota exceeded")
	require.ErrorContains(t, err, "RESOURCE_EXHAUSTED")
}

func TestGenerateNonJSONError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := New(Options{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "p", llmstxt.GenerateOptions{})
	require.ErrorContains(t, err, "status 502")
}

func TestGenerateBlockedPrompt(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(Options{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "p", llmstxt.GenerateOptions{})
	require.ErrorContains(t, err, "SAFETY")
}

func TestGenerateNoCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	t.Cleanup(srv.Close)

	got, err := New(Options{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "p", llmstxt.GenerateOptions{})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGenerateHonoursContextDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := New(Options{APIKey: "k", BaseURL: srv.URL}).Generate(ctx, "p", llmstxt.GenerateOptions{})
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}
