// Package discovery finds the pages of a site worth extracting, starting from
// the links on its seed page.
package discovery

import (
	"context"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

var skippedExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".zip": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".svg": {}, ".webp": {},
	".ico": {}, ".css": {}, ".js": {}, ".xml": {}, ".json": {}, ".rss": {},
}

var skippedPathPrefixes = []string{"/api/", "/admin/", "/_"}

// Discoverer fetches a seed page and returns the same-site links on it.
type Discoverer struct {
	fetcher llmstxt.Fetcher
	links   llmstxt.LinkParser
	logger  *zap.Logger
}

// New constructs a Discoverer.
func New(fetcher llmstxt.Fetcher, links llmstxt.LinkParser, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{
		fetcher: fetcher,
		links:   links,
		logger:  logger.Named("discovery"),
	}
}

// Discover returns at most maxPages URLs with baseURL always first. Seed
// failures are logged and yield just the base URL.
func (d *Discoverer) Discover(ctx context.Context, baseURL string, whitelist []string, maxPages int) []string {
	if maxPages < 1 {
		maxPages = 1
	}
	found := []string{baseURL}
	seen := map[string]struct{}{baseURL: {}}

	base, err := url.Parse(baseURL)
	if err != nil {
		d.logger.Warn("invalid base url", zap.String("site_url", baseURL), zap.Error(err))
		return found
	}

	resp, err := d.fetcher.Fetch(ctx, baseURL)
	if err != nil {
		d.logger.Warn("seed fetch failed", zap.String("site_url", baseURL), zap.Error(err))
		return found
	}
	hrefs, err := d.links.Links(resp.Body)
	if err != nil {
		d.logger.Warn("seed parse failed", zap.String("site_url", baseURL), zap.Error(err))
		return found
	}

	allowed := allowedHosts(base, whitelist)
	for _, href := range hrefs {
		if len(found) >= maxPages {
			break
		}
		candidate, ok := admit(base, href, allowed)
		if !ok {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		found = append(found, candidate)
	}

	d.logger.Info("discovered pages", zap.String("site_url", baseURL), zap.Int("count", len(found)))
	return found
}

func allowedHosts(base *url.URL, whitelist []string) map[string]struct{} {
	hosts := map[string]struct{}{strings.ToLower(base.Host): {}}
	for _, h := range whitelist {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts[h] = struct{}{}
		}
	}
	return hosts
}

// admit resolves href against base and applies the host, scheme, fragment,
// extension, and path-prefix filters.
func admit(base *url.URL, href string, allowed map[string]struct{}) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Fragment != "" || strings.HasSuffix(href, "#") {
		return "", false
	}
	switch strings.ToLower(resolved.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	resolved.Host = strings.ToLower(resolved.Host)
	if resolved.Host != "" {
		if _, ok := allowed[resolved.Host]; !ok {
			return "", false
		}
	}
	if _, skip := skippedExtensions[strings.ToLower(path.Ext(resolved.Path))]; skip {
		return "", false
	}
	for _, prefix := range skippedPathPrefixes {
		if strings.HasPrefix(resolved.Path, prefix) {
			return "", false
		}
	}
	return resolved.String(), true
}
