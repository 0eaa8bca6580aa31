package llmstxt

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidSiteURL is returned for site URLs that are not absolute http(s) URLs.
var ErrInvalidSiteURL = errors.New("site URL must be an absolute http or https URL")

// NormalizeSiteURL canonicalizes a site URL so it can be used as a job key.
// Scheme and host are lowercased, an empty path becomes "/", and any fragment
// is dropped.
func NormalizeSiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidSiteURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSiteURL, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidSiteURL
	}
	if u.Host == "" {
		return "", ErrInvalidSiteURL
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
