package llmstxt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSiteURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://example.com":            "https://example.com/",
		"HTTPS://Example.COM/":           "https://example.com/",
		" https://example.com/about#top": "https://example.com/about",
		"http://example.com:8080/a?b=c":  "http://example.com:8080/a?b=c",
	}
	for in, want := range cases {
		got, err := NormalizeSiteURL(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestNormalizeSiteURLRejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "example.com", "ftp://example.com", "mailto:a@example.com", "https://"} {
		_, err := NormalizeSiteURL(in)
		require.ErrorIs(t, err, ErrInvalidSiteURL, in)
	}
}
