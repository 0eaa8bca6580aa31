package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRootRegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Contains(t, names, "serve")
	require.Contains(t, names, "generate")
}

func TestGenerateRequiresSiteURL(t *testing.T) {
	_, err := execute(t, "generate")
	require.Error(t, err)
	require.Contains(t, err.Error(), "site-url")
}

func TestGenerateRejectsInvalidSiteURL(t *testing.T) {
	_, err := execute(t, "generate", "--site-url", "ftp://example.com")
	require.Error(t, err)
}

func TestGenerateRejectsUnknownLanguage(t *testing.T) {
	_, err := execute(t, "generate", "--site-url", "https://example.com", "--language", "not a language")
	require.Error(t, err)
}

func TestRootRejectsMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "generate", "--site-url", "https://example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "load config")
}

func TestWriteDocumentToStdout(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, writeDocument(&out, "", "# Example"))
	require.Equal(t, "# Example\n", out.String())
}

func TestWriteDocumentToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "llms.txt")
	var out bytes.Buffer
	require.NoError(t, writeDocument(&out, path, "# Example"))
	require.Empty(t, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# Example\n", string(data))
}

func TestWriteDocumentReportsFileErrors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "llms.txt")
	err := writeDocument(&bytes.Buffer{}, path, "# Example")
	require.Error(t, err)
}
