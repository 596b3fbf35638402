package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/psp-report-service/pkg/config"
	"github.com/user/psp-report-service/pkg/logger"
	"github.com/user/psp-report-service/pkg/metrics"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "pspctl",
	Short:         "pspctl extracts Grid India daily PSP reports into a single workbook.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		logger.Init(cmd.ErrOrStderr(), logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
		metrics.Init()
		return nil
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
