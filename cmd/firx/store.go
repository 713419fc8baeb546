package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/case-summarizer/internal/app"
	"github.com/joseph-ayodele/case-summarizer/internal/async"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

func init() {
	batchCmd.Flags().String("dir", "", "directory of reports to ingest (required)")
	batchCmd.Flags().String("out", "cases.xlsx", "path of the XLSX register to write")
	batchCmd.Flags().Bool("include-hidden", false, "also ingest hidden files and directories")
	batchCmd.Flags().Int("workers", 0, "parallel workers (default from QUEUE_WORKERS)")
	_ = batchCmd.MarkFlagRequired("dir")

	exportCmd.Flags().String("out", "cases.xlsx", "path of the XLSX register to write")
}

var batchCmd = &cobra.Command{
	Use:     "batch --dir DIR [--out FILE]",
	GroupID: "report",
	Short:   "Summarise a directory of reports into an XLSX register",
	Long: `Ingests every supported file under --dir into a throwaway in-memory
database, processes them on a worker pool and writes the register to --out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		out, _ := cmd.Flags().GetString("out")
		includeHidden, _ := cmd.Flags().GetBool("include-hidden")
		if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
			cfg.Queue.Workers = n
		}

		uploads, err := os.MkdirTemp("", "firx-batch-*")
		if err != nil {
			return err
		}
		defer func() { _ = os.RemoveAll(uploads) }()
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = ":memory:"
		cfg.Storage.UploadDir = uploads

		ctx := cmd.Context()
		a, err := app.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		results, stats, err := a.Ingestor.IngestDirectory(ctx, dir, !includeHidden)
		if err != nil {
			return err
		}
		q := async.NewProcessorQueue(a.Processor, logger,
			async.WithWorkers(cfg.Queue.Workers),
			async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
		)
		for _, r := range results {
			if r.Err != "" || r.Deduplicated {
				continue
			}
			if err := q.Enqueue(ctx, async.Job{CaseID: r.CaseID}); err != nil {
				return err
			}
		}
		q.Shutdown(context.WithoutCancel(ctx))

		counts, err := a.Cases.CountByStatus(ctx)
		if err != nil {
			return err
		}
		if err := writeRegister(ctx, a, out); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(),
			"scanned %d, ingested %d (%d duplicates, %d failed), completed %d, failed %d -> %s\n",
			stats.Scanned, stats.Succeeded, stats.Deduplicated, stats.Failed,
			counts["COMPLETED"], counts["FAILED"], out)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:     "export [--out FILE]",
	GroupID: "store",
	Short:   "Write the XLSX register of the configured database",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")

		db, err := repository.Open(cmd.Context(), app.DBConfig(cfg), logger)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		a, err := app.Build(db, cfg, logger)
		if err != nil {
			return err
		}
		if err := writeRegister(cmd.Context(), a, out); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
		return nil
	},
}

func writeRegister(ctx context.Context, a *app.App, out string) error {
	data, err := a.Exporter.ExportCasesXLSX(ctx, nil, nil)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(out, data, 0o644)
}
