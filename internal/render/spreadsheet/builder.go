// Package spreadsheet renders sheet tables into .xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"docgen-backend/internal/render"
	"docgen-backend/internal/structurer"
)

const (
	// Extension is the file extension of rendered workbooks.
	Extension = ".xlsx"
	// ContentType is the MIME type of rendered workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	fontName     = "맑은 고딕"
	headerFontPt = 11.0
	bodyFontPt   = 10.0

	// Column widths are tracked in 1/256ths of a character, the unit the
	// clamp band is defined in; excelize takes plain character counts.
	minColWidth = 3000
	maxColWidth = 15000
)

// Builder renders sheet tables into workbook files under OutputDir.
type Builder struct {
	OutputDir string
	Now       func() time.Time
}

// Build renders the sheets into a workbook and persists it. The returned file
// name is only published after the write fully succeeds.
func (b *Builder) Build(title string, sheets []structurer.Sheet) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"C0C0C0"}, Pattern: 1},
		Border:    thinBorders(),
		Font:      &excelize.Font{Bold: true, Size: headerFontPt, Family: fontName},
	})
	if err != nil {
		return "", fmt.Errorf("%w: header style: %v", render.ErrBuildFailed, err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    thinBorders(),
		Font:      &excelize.Font{Size: bodyFontPt, Family: fontName},
	})
	if err != nil {
		return "", fmt.Errorf("%w: body style: %v", render.ErrBuildFailed, err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			// The new workbook starts with a default sheet; claim it.
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return "", fmt.Errorf("%w: sheet %q: %v", render.ErrBuildFailed, sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return "", fmt.Errorf("%w: sheet %q: %v", render.ErrBuildFailed, sheet.Name, err)
			}
		}
		if err := writeSheet(f, sheet, headerStyle, bodyStyle); err != nil {
			return "", err
		}
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	fileName := render.FileName(title, now(), Extension)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("%w: %v", render.ErrBuildFailed, err)
	}
	if err := render.WriteFile(b.OutputDir, fileName, buf.Bytes()); err != nil {
		return "", err
	}
	return fileName, nil
}

func writeSheet(f *excelize.File, sheet structurer.Sheet, headerStyle, bodyStyle int) error {
	for rowIdx, row := range sheet.Rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("%w: %v", render.ErrBuildFailed, err)
			}
			if err := f.SetCellStr(sheet.Name, cell, value); err != nil {
				return fmt.Errorf("%w: %v", render.ErrBuildFailed, err)
			}
			style := bodyStyle
			if rowIdx == 0 {
				style = headerStyle
			}
			if err := f.SetCellStyle(sheet.Name, cell, cell, style); err != nil {
				return fmt.Errorf("%w: %v", render.ErrBuildFailed, err)
			}
		}
	}
	return sizeColumns(f, sheet)
}

// sizeColumns auto-sizes every column the header row declares, clamped to the
// [minColWidth, maxColWidth] band.
func sizeColumns(f *excelize.File, sheet structurer.Sheet) error {
	if len(sheet.Rows) == 0 {
		return nil
	}
	for colIdx := range sheet.Rows[0] {
		width := autoWidth(sheet.Rows, colIdx)
		if width < minColWidth {
			width = minColWidth
		} else if width > maxColWidth {
			width = maxColWidth
		}
		colName, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return fmt.Errorf("%w: %v", render.ErrBuildFailed, err)
		}
		if err := f.SetColWidth(sheet.Name, colName, colName, float64(width)/256.0); err != nil {
			return fmt.Errorf("%w: %v", render.ErrBuildFailed, err)
		}
	}
	return nil
}

// autoWidth approximates font-metric sizing from the longest cell text in the
// column, plus a little padding.
func autoWidth(rows [][]string, colIdx int) int {
	longest := 0
	for _, row := range rows {
		if colIdx >= len(row) {
			continue
		}
		if n := len([]rune(row[colIdx])); n > longest {
			longest = n
		}
	}
	return (longest + 2) * 256
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}
