package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextPrefersArticleAndDropsChrome(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Acme</title><style>.x{}</style></head><body>
<nav>Home | About</nav>
<header>Site header</header>
<article><h1>Acme Widgets</h1><p>We build widgets for industry.</p><!-- internal note --></article>
<footer>Copyright</footer>
<script>var tracking = true;</script>
</body></html>`

	text, err := New().Text([]byte(page))
	require.NoError(t, err)
	require.Contains(t, text, "Acme Widgets")
	require.Contains(t, text, "We build widgets for industry.")
	require.NotContains(t, text, "Home | About")
	require.NotContains(t, text, "Site header")
	require.NotContains(t, text, "Copyright")
	require.NotContains(t, text, "tracking")
	require.NotContains(t, text, "internal note")
}

func TestTextFallsBackToBody(t *testing.T) {
	t.Parallel()

	text, err := New().Text([]byte(`<html><body><div><p>Plain body copy.</p></div></body></html>`))
	require.NoError(t, err)
	require.Equal(t, "Plain body copy.", text)
}

func TestTextKeepsTables(t *testing.T) {
	t.Parallel()

	page := `<html><body><main><table><tr><th>Plan</th><th>Price</th></tr><tr><td>Pro</td><td>$10</td></tr></table></main></body></html>`
	text, err := New().Text([]byte(page))
	require.NoError(t, err)
	require.Contains(t, text, "Plan")
	require.Contains(t, text, "Pro")
	require.Contains(t, text, "$10")
}

func TestTextEmptyInputs(t *testing.T) {
	t.Parallel()

	e := New()
	for _, body := range []string{"", "   ", "<html><body><nav>only nav</nav></body></html>"} {
		text, err := e.Text([]byte(body))
		require.NoError(t, err)
		require.Empty(t, text, "body %q", body)
	}
}

func TestLinks(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<a href="/about">About</a>
<a href="  https://example.com/pricing ">Pricing</a>
<a href="">Empty</a>
<a>No href</a>
<a href="#top">Top</a>
</body></html>`

	links, err := New().Links([]byte(page))
	require.NoError(t, err)
	require.Equal(t, []string{"/about", "https://example.com/pricing", "#top"}, links)
}
