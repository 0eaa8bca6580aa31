package llmstxt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLanguage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "auto", "AUTO", "  auto "} {
		got, err := NormalizeLanguage(in)
		require.NoError(t, err)
		require.Equal(t, LanguageAuto, got)
	}

	got, err := NormalizeLanguage("fr")
	require.NoError(t, err)
	require.Equal(t, "fr", got)

	_, err = NormalizeLanguage("not a language!")
	require.Error(t, err)
}

func TestLanguageName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "auto", LanguageName("auto"))
	require.Equal(t, "fr (French)", LanguageName("fr"))
}
