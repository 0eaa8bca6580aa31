package synth

import (
	"fmt"
	"strings"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
)

// MaxContentChars is the hard cap on aggregated page text, counted in runes.
const MaxContentChars = 100000

// TruncationMarker is appended when aggregated text hits MaxContentChars.
const TruncationMarker = "\n[CONTENT TRUNCATED]"

// Aggregate renders every page as a delimited block and caps the result at
// MaxContentChars runes.
func Aggregate(site llmstxt.SiteContent) string {
	blocks := make([]string, 0, len(site.Pages))
	for _, p := range site.Pages {
		blocks = append(blocks, fmt.Sprintf("=== PAGE: %s ===\n%s\n", p.URL, p.Content))
	}
	combined := strings.Join(blocks, "\n")

	runes := []rune(combined)
	if len(runes) <= MaxContentChars {
		return combined
	}
	return string(runes[:MaxContentChars]) + TruncationMarker
}
