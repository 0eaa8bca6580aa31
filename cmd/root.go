// Package cmd defines the CLI commands for the llmstxt executable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/llmstxt-crawler/internal/config"
	"github.com/JakeFAU/llmstxt-crawler/internal/logging"
	"github.com/JakeFAU/llmstxt-crawler/internal/telemetry"
)

// runtimeKeyType is the key for storing runtime dependencies in the context.
type runtimeKeyType string

const runtimeKey runtimeKeyType = "runtime"

// runtime carries what every subcommand needs.
type runtime struct {
	cfg            config.Config
	logger         *zap.Logger
	tracerProvider *sdktrace.TracerProvider
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "llmstxt",
		Short: "Generate llms.txt documents for websites.",
		Long: `llmstxt crawls a website, extracts the readable text of its pages,
and asks Gemini to write an llms.txt summary of the organization behind it.
Run "llmstxt serve" for the HTTP API or "llmstxt generate" for a one-shot run.`,
		SilenceUsage: true,

		// Loads configuration and builds the logger before any subcommand runs.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			logger, err := logging.New(logging.Options{
				Development: cfg.Logging.Development,
				Level:       cfg.Logging.Level,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)
			tp, err := telemetry.InitTracerProvider(cmd.Context(), telemetry.ServiceName)
			if err != nil {
				return fmt.Errorf("init tracing: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), runtimeKey, &runtime{cfg: cfg, logger: logger, tracerProvider: tp})
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt, ok := cmd.Context().Value(runtimeKey).(*runtime); ok && rt != nil {
				if err := rt.tracerProvider.Shutdown(context.Background()); err != nil {
					rt.logger.Warn("tracer shutdown failed", zap.Error(err))
				}
				_ = rt.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json, or toml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newGenerateCmd())

	return cmd
}

func resolveRuntime(ctx context.Context) (*runtime, error) {
	rt, ok := ctx.Value(runtimeKey).(*runtime)
	if !ok || rt == nil {
		return nil, fmt.Errorf("runtime not initialized")
	}
	return rt, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
