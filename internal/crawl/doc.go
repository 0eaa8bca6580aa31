// Package crawl fetches discovered pages with a fixed concurrency ceiling and
// collects their extracted text into a llmstxt.SiteContent.
package crawl
