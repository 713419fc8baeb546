package textextract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// transcribe runs the whisper CLI and reads the transcript it writes.
func (e *Extractor) transcribe(ctx context.Context, path string) (Result, error) {
	outDir, err := os.MkdirTemp("", "fir-whisper-*")
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	// whisper <file> --model base --language en --task transcribe --output_format txt --output_dir <dir>
	_, errb, err := e.runner.Run(ctx, e.cfg.Whisper, path,
		"--model", e.cfg.WhisperModel,
		"--language", e.cfg.WhisperLanguage,
		"--task", "transcribe",
		"--output_format", "txt",
		"--output_dir", outDir,
	)
	if err != nil {
		return Result{Method: "audio-whisper"}, fmt.Errorf("whisper: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	b, err := os.ReadFile(filepath.Join(outDir, base+".txt"))
	if err != nil {
		return Result{Method: "audio-whisper"}, fmt.Errorf("read transcript: %w", err)
	}
	return Result{Text: string(b), Pages: 1, Method: "audio-whisper"}, nil
}
