// Package api hosts the HTTP server, middleware, and REST handlers for the
// llms.txt generator. Routes:
//   - GET / for a liveness banner and GET /healthz for probes.
//   - GET /metrics for Prometheus scraping.
//   - POST /generate to start a generation job.
//   - GET /status/{siteUrl} and GET /result/{siteUrl} to poll a job.
//   - DELETE /generation/{siteUrl} to drop a job record.
//
// The site URL is passed as the remainder of the path, either raw
// (/status/https://example.com/) or percent-encoded.
package api
