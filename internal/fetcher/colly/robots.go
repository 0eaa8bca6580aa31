package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/JakeFAU/llmstxt-crawler/internal/metrics"
)

// robotsFailOpenTransport treats an unreachable robots.txt as "allow all" so a
// flaky robots endpoint does not drop every page of a site.
type robotsFailOpenTransport struct {
	base http.RoundTripper
}

func (t *robotsFailOpenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("robots transport received nil request")
	}
	resp, err := t.base.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	if !isRobotsTxtRequest(req) || !isTransientError(err) {
		return nil, fmt.Errorf("robots transport roundtrip: %w", err)
	}
	metrics.ObserveRobotsFallback()
	return syntheticRobotsAllowAllResponse(req), nil
}

func isRobotsTxtRequest(req *http.Request) bool {
	if req == nil || req.URL == nil {
		return false
	}
	return strings.EqualFold(req.URL.Path, "/robots.txt")
}

func syntheticRobotsAllowAllResponse(req *http.Request) *http.Response {
	const body = "User-agent: *\nAllow: /"
	return &http.Response{
		StatusCode:    http.StatusOK,
		Status:        "200 OK",
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Header:        make(http.Header),
		Request:       req,
	}
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "tls: handshake timeout")
}
