package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frijal/ArtikelHub/internal/config"
	"github.com/frijal/ArtikelHub/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Maintenance tasks for the article site",
	Long: `blogctl rebuilds the static artefacts of the site and runs the
housekeeping jobs around it.

Settings not given as flags come from the same environment variables the
API server reads (SITE_URL, CATEGORIES_FILE, OPENAI_API_KEY, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.New(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(generateCmd, feedCmd, keywordsCmd, screenshotCmd, depsCmd, pageCheckCmd, markdownCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
