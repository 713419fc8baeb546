package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/export"
)

const report = `Police Station: Saket
FIR No.: 245/2024
Date: 12/03/2024
Offence under Section 379 IPC`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExtractFromStdin(t *testing.T) {
	out, err := execute(t, report, "extract", "-", "--log-level", "error")
	require.NoError(t, err)

	var sum fir.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, "245/2024", sum.Entities.FIRNumber)
	assert.Equal(t, []string{"IPC 379"}, sum.Entities.Sections)
}

func TestExtractEntitiesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fir.txt")
	require.NoError(t, os.WriteFile(path, []byte(report), 0o644))

	out, err := execute(t, "", "extract", path, "--entities", "--compact", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)

	var ents fir.Entities
	require.NoError(t, json.Unmarshal([]byte(out), &ents))
	assert.Equal(t, "12/03/2024", ents.Date)
}

func TestBatchWritesRegister(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte(report), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("FIR No.: 7/2023"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.txt"), []byte(report), 0o644))
	out := filepath.Join(t.TempDir(), "reg", "cases.xlsx")

	stdout, err := execute(t, "", "batch", "--dir", dir, "--out", out, "--workers", "2", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "completed 2")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	var firNumbers []string
	for _, r := range rows[1:] {
		firNumbers = append(firNumbers, r[3])
	}
	assert.ElementsMatch(t, []string{"245/2024", "7/2023"}, firNumbers)
}

func TestBatchRequiresDir(t *testing.T) {
	_, err := execute(t, "", "batch", "--dir", "")
	assert.Error(t, err)
}
