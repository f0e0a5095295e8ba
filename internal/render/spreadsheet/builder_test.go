package spreadsheet

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"docgen-backend/internal/structurer"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
}

func TestBuildWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	b := &Builder{OutputDir: dir, Now: fixedNow}

	sheets := []structurer.Sheet{
		{Name: "Revenue", Rows: [][]string{{"Quarter", "Amount"}, {"Q1", "120000"}}},
		{Name: "담당자", Rows: [][]string{{"이름"}, {"김민준"}}},
	}
	fileName, err := b.Build("Budget", sheets)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if fileName != "Budget_20260701_120000.xlsx" {
		t.Errorf("file name = %q, want %q", fileName, "Budget_20260701_120000.xlsx")
	}

	f, err := excelize.OpenFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) != 2 || names[0] != "Revenue" || names[1] != "담당자" {
		t.Fatalf("sheet list = %v, want [Revenue 담당자]", names)
	}

	got, err := f.GetCellValue("Revenue", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "120000" {
		t.Errorf("cell B2 = %q, want %q", got, "120000")
	}
	got, err = f.GetCellValue("담당자", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "김민준" {
		t.Errorf("cell A2 = %q, want %q", got, "김민준")
	}
}

func TestBuildClampsColumnWidths(t *testing.T) {
	dir := t.TempDir()
	b := &Builder{OutputDir: dir, Now: fixedNow}

	sheets := []structurer.Sheet{{
		Name: "S",
		Rows: [][]string{
			{"a", strings.Repeat("x", 120)},
		},
	}}
	fileName, err := b.Build("Widths", sheets)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	narrow, err := f.GetColWidth("S", "A")
	if err != nil {
		t.Fatalf("read width: %v", err)
	}
	if want := float64(minColWidth) / 256.0; narrow != want {
		t.Errorf("narrow column width = %v, want clamped to %v", narrow, want)
	}

	wide, err := f.GetColWidth("S", "B")
	if err != nil {
		t.Fatalf("read width: %v", err)
	}
	if want := float64(maxColWidth) / 256.0; wide != want {
		t.Errorf("wide column width = %v, want clamped to %v", wide, want)
	}
}

func TestBuildSanitizesTitleInFileName(t *testing.T) {
	dir := t.TempDir()
	b := &Builder{OutputDir: dir}

	fileName, err := b.Build("Q3 Report - Draft!", []structurer.Sheet{
		{Name: "S", Rows: [][]string{{"h"}}},
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	pattern := regexp.MustCompile(`^Q3_Report___Draft__\d{8}_\d{6}\.xlsx$`)
	if !pattern.MatchString(fileName) {
		t.Errorf("file name %q does not match %q", fileName, pattern)
	}
}
