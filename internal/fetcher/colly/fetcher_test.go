package collyfetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

func TestFetchReturnsBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-agent", r.UserAgent())
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>hello</p></body></html>"))
	}))
	t.Cleanup(srv.Close)

	f := New(Config{UserAgent: "test-agent", Timeout: time.Second})
	resp, err := f.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html", resp.ContentType)
	require.Contains(t, string(resp.Body), "hello")

	// The same URL can be fetched again by the same fetcher.
	_, err = f.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
}

func TestFetchFollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("moved here"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	resp, err := New(Config{}).Fetch(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	require.Equal(t, "moved here", string(resp.Body))
}

func TestFetchNonSuccessStatusIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := New(Config{}).Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
}

func TestFetchTimeoutIsError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte("late"))
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	_, err := New(Config{Timeout: 50 * time.Millisecond}).Fetch(context.Background(), srv.URL+"/slow")
	require.Error(t, err)
}

func TestFetchHonoursContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{}).Fetch(ctx, "http://127.0.0.1:1/unreachable")
	require.Error(t, err)
}

func TestConfigureCollectorHooks(t *testing.T) {
	t.Parallel()

	f := New(Config{})
	var result llmstxt.FetchResponse
	var fetchErr error

	hooks := &stubHooks{}
	f.configureCollectorHooks(hooks, time.Now(), &result, &fetchErr)
	require.NotNil(t, hooks.onResponse)
	require.NotNil(t, hooks.onError)

	hooks.onResponse(&colly.Response{
		StatusCode: http.StatusOK,
		Body:       []byte("body"),
		Headers:    &http.Header{"Content-Type": {"text/plain"}},
		Request:    &colly.Request{URL: mustParseURL(t, "https://example.com/a")},
	})
	require.Equal(t, "body", string(result.Body))
	require.Equal(t, "text/plain", result.ContentType)
	require.Equal(t, "https://example.com/a", result.URL)

	hooks.onError(&colly.Response{StatusCode: http.StatusBadGateway}, errors.New("bad gateway"))
	require.ErrorContains(t, fetchErr, "status 502")
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

type stubHooks struct {
	onResponse colly.ResponseCallback
	onError    colly.ErrorCallback
}

func (s *stubHooks) OnResponse(cb colly.ResponseCallback) {
	s.onResponse = cb
}

func (s *stubHooks) OnError(cb colly.ErrorCallback) {
	s.onError = cb
}
