package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/case-summarizer/internal/app"
	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/core/textextract"
)

func init() {
	extractCmd.Flags().Bool("compact", false, "print JSON on one line")
	extractCmd.Flags().Bool("entities", false, "print only the entities object")
}

var extractCmd = &cobra.Command{
	Use:     "extract [file|-]",
	GroupID: "report",
	Short:   "Print the structured summary of one report",
	Long: `Reads a report and prints its summary as JSON. Plain text is read from
stdin when the argument is "-" or missing; other files go through text
extraction (pdftotext, tesseract, whisper) first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		x, err := app.NewFIRExtractor(cfg, logger)
		if err != nil {
			return err
		}

		var text string
		switch {
		case len(args) == 0 || args[0] == "-":
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = textextract.Clean(string(b))
		case strings.EqualFold(filepath.Ext(args[0]), ".txt"):
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			text = textextract.Clean(string(b))
		default:
			tx := textextract.NewExtractor(textextract.Config{
				Pdftotext:     cfg.Extract.Pdftotext,
				Pdftoppm:      cfg.Extract.Pdftoppm,
				Tesseract:     cfg.Extract.Tesseract,
				TesseractLang: cfg.Extract.TesseractLang,
				TessdataDir:   cfg.Extract.TessdataDir,
				Whisper:       cfg.Extract.Whisper,
				WhisperModel:  cfg.Extract.WhisperModel,
			}, logger)
			res, err := tx.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			text = res.Text
		}

		sum := x.Extract(text)
		if err := fir.ValidateSummary(sum); err != nil {
			return err
		}
		var out any = sum
		if only, _ := cmd.Flags().GetBool("entities"); only {
			out = sum.Entities
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		if compact, _ := cmd.Flags().GetBool("compact"); !compact {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(out)
	},
}
