// Package export renders the case register as an XLSX workbook.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/case-summarizer/internal/common"
	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/entity"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

const (
	SheetName      = "Cases"
	OverviewMaxLen = 200
)

// Headers are the register columns, in order.
var Headers = []string{
	"Case ID",
	"File",
	"Status",
	"FIR No.",
	"Police Station",
	"Date",
	"Time",
	"Complainant",
	"Accused",
	"Sections",
	"Location",
	"Investigating Officer",
	"Witnesses",
	"Overview",
}

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	casesRepo     repository.CaseRepository
	summariesRepo repository.SummaryRepository
	logger        *slog.Logger
}

func NewService(cases repository.CaseRepository, summaries repository.SummaryRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{casesRepo: cases, summariesRepo: summaries, logger: logger}
}

// ExportCasesXLSX returns an XLSX workbook (as bytes) with one row per case
// uploaded within the window, newest first.
// If only from is provided -> from..now.
// If only to is provided   -> beginning..to (inclusive of that day).
// If neither is provided   -> all cases.
func (s *Service) ExportCasesXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	cases, err := s.casesRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	cases = inWindow(cases, from, to)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(SheetName, "A1", "N1", style)
	}

	for i, c := range cases {
		sum, err := s.summaryFor(ctx, &c)
		if err != nil {
			return nil, err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &[]any{
			c.ID,
			c.FileName,
			string(c.Status),
			sum.Entities.FIRNumber,
			sum.Entities.PoliceStation,
			sum.Entities.Date,
			sum.Entities.Time,
			sum.Entities.Complainant,
			sum.Entities.Accused,
			strings.Join(sum.Entities.Sections, ", "),
			sum.Entities.Location,
			sum.Entities.InvestigatingOfficer,
			strings.Join(sum.Entities.Witnesses, ", "),
			truncate(sum.Overview, OverviewMaxLen),
		}); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 22) // case id
	_ = f.SetColWidth(SheetName, "B", "B", 30) // file
	_ = f.SetColWidth(SheetName, "C", "C", 13) // status
	_ = f.SetColWidth(SheetName, "D", "G", 14) // fir no, station, date, time
	_ = f.SetColWidth(SheetName, "E", "E", 22)
	_ = f.SetColWidth(SheetName, "H", "I", 24) // parties
	_ = f.SetColWidth(SheetName, "J", "J", 20) // sections
	_ = f.SetColWidth(SheetName, "K", "L", 26)
	_ = f.SetColWidth(SheetName, "M", "M", 30) // witnesses
	_ = f.SetColWidth(SheetName, "N", "N", 80) // overview
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("cases exported",
		"rows", len(cases),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// summaryFor returns the stored summary, or an empty one for cases that have
// not been summarised.
func (s *Service) summaryFor(ctx context.Context, c *entity.Case) (fir.Summary, error) {
	cs, err := s.summariesRepo.Get(ctx, c.ID)
	switch {
	case err == nil:
		return cs.Summary, nil
	case errors.Is(err, common.ErrNotFound):
		return fir.EmptySummary(), nil
	default:
		return fir.Summary{}, fmt.Errorf("load summary %s: %w", c.ID, err)
	}
}

func inWindow(cases []entity.Case, from, to *time.Time) []entity.Case {
	if from == nil && to == nil {
		return cases
	}
	var end time.Time
	if to != nil {
		end = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	}
	out := cases[:0:0]
	for _, c := range cases {
		if from != nil && c.UploadedAt.Before(*from) {
			continue
		}
		if to != nil && !c.UploadedAt.Before(end) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
