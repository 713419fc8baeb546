package textextract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-=]{3,}\s*$`)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	txt, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return Result{Method: "image-ocr"}, err
	}
	return Result{Text: txt, Pages: 1, Method: "image-ocr"}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang> --oem 3 --psm 6
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang, "--oem", "3", "--psm", "6"}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	// form rules and separator lines carry no text
	return reBoxNoise.ReplaceAllString(string(out), ""), nil
}
