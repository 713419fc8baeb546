package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/logging"
)

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "debug|info|warn|error (default from LOG_LEVEL)")
	rootCmd.AddGroup(reportGroup, storeGroup)
	rootCmd.AddCommand(extractCmd, batchCmd, exportCmd)
}

var (
	reportGroup = &cobra.Group{ID: "report", Title: "Report extraction"}
	storeGroup  = &cobra.Group{ID: "store", Title: "Case store"}
)

var rootCmd = &cobra.Command{
	Use:           "firx",
	Short:         "Summarise First Information Reports",
	Long:          `Extracts structured case summaries from First Information Reports and manages the case register.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// setup loads .env and the environment and returns a stderr logger.
func setup(cmd *cobra.Command) (*common.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := common.LoadConfig()
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, false)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
