// Package llmstxt defines the core types and collaborator interfaces shared by
// the crawl pipeline, the job tracker, and the HTTP surface.
package llmstxt
