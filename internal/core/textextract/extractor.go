// Package textextract turns uploaded files into plain text for summarising.
// Scans and photos go through tesseract, PDFs through pdftotext with an OCR
// fallback, recordings through the whisper CLI.
package textextract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/case-summarizer/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Whisper   string // binary name or absolute path; if empty -> "whisper"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit

	WhisperModel    string // default "base"
	WhisperLanguage string // default "en"

	// MinPDFTextRunes below which a PDF is treated as scanned and OCR'd.
	MinPDFTextRunes int
}

type Result struct {
	Text     string
	Pages    int
	Method   string // "plain" | "docx" | "pdf-text" | "pdf-ocr" | "image-ocr" | "audio-whisper"
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Whisper == "" {
		cfg.Whisper = "whisper"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.WhisperModel == "" {
		cfg.WhisperModel = "base"
	}
	if cfg.WhisperLanguage == "" {
		cfg.WhisperLanguage = "en"
	}
	if cfg.MinPDFTextRunes <= 0 {
		cfg.MinPDFTextRunes = 50
	}
	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)

	var (
		res Result
		err error
	)
	switch {
	case ext == "txt":
		res, err = readPlain(path)
	case ext == "docx":
		res, err = readDocx(path)
	case ext == "pdf":
		res, err = e.extractPDF(ctx, path)
	default:
		ft, ok := constants.ClassifyExt(ext)
		switch {
		case ok && ft == constants.FileTypeImage:
			res, err = e.extractImage(ctx, path)
		case ok && ft == constants.FileTypeAudio:
			res, err = e.transcribe(ctx, path)
		default:
			e.logger.Error("unsupported extension", "extension", ext)
			return Result{}, fmt.Errorf("unsupported extension: %q", ext)
		}
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	if res.Method == "image-ocr" || res.Method == "pdf-ocr" {
		res.Text = FixOCR(res.Text)
	}
	res.Text = Clean(res.Text)
	e.logger.Info("text extracted", "path", path, "method", res.Method, "runes", utf8.RuneCountInString(res.Text),
		"duration_ms", res.Duration.Milliseconds())
	return res, nil
}

func readPlain(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read text: %w", err)
	}
	return Result{Text: strings.ToValidUTF8(string(b), ""), Pages: 1, Method: "plain"}, nil
}
