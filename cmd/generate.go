package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/llmstxt-crawler/internal/llmstxt"
	"github.com/JakeFAU/llmstxt-crawler/internal/server"
)

type generateFlags struct {
	siteURL          string
	extras           string
	maxPages         int
	language         string
	strict           bool
	includeOptional  bool
	whitelistDomains string
	out              string
}

// newGenerateCmd creates the 'generate' subcommand, which runs one generation
// synchronously and writes the document to stdout or a file.
func newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an llms.txt document for one site and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := resolveRuntime(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-pages") {
				f.maxPages = rt.cfg.Crawler.MaxPagesDefault
			}
			app, err := server.NewApp(rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			doc, err := app.Orchestrator().Generate(cmd.Context(), llmstxt.GenerationConfig{
				SiteURL:          f.siteURL,
				Extras:           f.extras,
				MaxPages:         f.maxPages,
				Language:         f.language,
				StrictMode:       f.strict,
				IncludeOptional:  f.includeOptional,
				WhitelistDomains: f.whitelistDomains,
			})
			if err != nil {
				if failure := llmstxt.AsFailure(err); failure.Kind != llmstxt.FailureInternal {
					return fmt.Errorf("%s", failure.Message())
				}
				return err
			}
			return writeDocument(cmd.OutOrStdout(), f.out, doc)
		},
	}
	cmd.Flags().StringVar(&f.siteURL, "site-url", "", "site to crawl (required)")
	cmd.Flags().StringVar(&f.extras, "extras", "", "extra context passed to the model")
	cmd.Flags().IntVar(&f.maxPages, "max-pages", llmstxt.DefaultMaxPages, "maximum number of pages to extract")
	cmd.Flags().StringVar(&f.language, "language", llmstxt.LanguageAuto, `output language ("auto" or a BCP 47 tag)`)
	cmd.Flags().BoolVar(&f.strict, "strict", true, "only include verifiable facts")
	cmd.Flags().BoolVar(&f.includeOptional, "include-optional", true, "include optional sections")
	cmd.Flags().StringVar(&f.whitelistDomains, "whitelist-domains", "", "comma-separated extra hosts to crawl")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the document to this file instead of stdout")
	_ = cmd.MarkFlagRequired("site-url")
	return cmd
}

func writeDocument(stdout io.Writer, path, doc string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, doc)
		return err
	}
	if err := os.WriteFile(path, []byte(doc+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
