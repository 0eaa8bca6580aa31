package llmstxt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// NormalizeLanguage validates a language selector. Empty and "auto" select
// automatic detection; anything else must parse as a BCP 47 tag.
func NormalizeLanguage(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, LanguageAuto) {
		return LanguageAuto, nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("unsupported language %q: %w", raw, err)
	}
	return tag.String(), nil
}

// LanguageName renders a selector for humans, e.g. "fr (French)".
func LanguageName(selector string) string {
	if selector == "" || selector == LanguageAuto {
		return LanguageAuto
	}
	tag, err := language.Parse(selector)
	if err != nil {
		return selector
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return selector
	}
	return fmt.Sprintf("%s (%s)", selector, name)
}
