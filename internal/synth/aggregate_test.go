package synth

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

func TestAggregateFormatsBlocks(t *testing.T) {
	t.Parallel()

	site := llmstxt.SiteContent{Pages: []llmstxt.PageRecord{
		{URL: "https://a.test/", Content: "home"},
		{URL: "https://a.test/about", Content: "about us"},
	}}
	require.Equal(t,
		"=== PAGE: https://a.test/ ===\nhome\n\n=== PAGE: https://a.test/about ===\nabout us\n",
		Aggregate(site))
}

func TestAggregateUnderCapIsUntouched(t *testing.T) {
	t.Parallel()

	site := llmstxt.SiteContent{Pages: []llmstxt.PageRecord{{URL: "u", Content: strings.Repeat("x", 1000)}}}
	got := Aggregate(site)
	require.NotContains(t, got, "[CONTENT TRUNCATED]")
}

func TestAggregateTruncatesAtRuneCap(t *testing.T) {
	t.Parallel()

	site := llmstxt.SiteContent{Pages: []llmstxt.PageRecord{
		{URL: "https://a.test/", Content: strings.Repeat("é", 60000)},
		{URL: "https://a.test/2", Content: strings.Repeat("ß", 60000)},
	}}
	got := Aggregate(site)
	require.True(t, strings.HasSuffix(got, TruncationMarker))
	require.Equal(t, MaxContentChars+utf8.RuneCountInString(TruncationMarker), utf8.RuneCountInString(got))
	require.True(t, utf8.ValidString(got))
}

func TestAggregateBoundHolds(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 10, 99_000, 100_000, 250_000} {
		site := llmstxt.SiteContent{Pages: []llmstxt.PageRecord{{URL: "u", Content: strings.Repeat("a", n)}}}
		got := Aggregate(site)
		require.LessOrEqual(t, utf8.RuneCountInString(got), MaxContentChars+utf8.RuneCountInString(TruncationMarker))
	}
}
