package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ie-tracker-report/internal/models"
)

// ExcelService turns a grid document into a workbook. All layout decisions
// are made upstream; this service only translates cells, merges and styles
// into excelize calls.
type ExcelService struct{}

// NewExcelService creates a new excel service
func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// WriteWorkbook builds an in-memory workbook from the grid document.
func (s *ExcelService) WriteWorkbook(doc *models.GridDocument) (*excelize.File, error) {
	if doc == nil || len(doc.Sheets) == 0 {
		return nil, fmt.Errorf("document has no sheets")
	}

	f := excelize.NewFile()
	styles := make(map[models.CellStyle]int)

	for i, sheet := range doc.Sheets {
		if i == 0 {
			// Reuse the default sheet for the first one.
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
			}
		}

		if err := s.writeSheet(f, sheet, styles); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// WorkbookBytes builds the workbook and serializes it.
func (s *ExcelService) WorkbookBytes(doc *models.GridDocument) ([]byte, error) {
	f, err := s.WriteWorkbook(doc)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExcelService) writeSheet(f *excelize.File, sheet models.GridSheet, styles map[models.CellStyle]int) error {
	// Thin borders cover the whole used rectangle, populated or not.
	borderOnly, err := s.styleID(f, styles, models.CellStyle{})
	if err != nil {
		return err
	}
	if sheet.MaxRow > 0 && sheet.MaxCol > 0 {
		last, _ := excelize.CoordinatesToCellName(sheet.MaxCol, sheet.MaxRow)
		if err := f.SetCellStyle(sheet.Name, "A1", last, borderOnly); err != nil {
			return fmt.Errorf("failed to apply borders on %s: %w", sheet.Name, err)
		}
	}

	for _, cell := range sheet.Cells {
		name, err := excelize.CoordinatesToCellName(cell.Col, cell.Row)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates (%d,%d): %w", cell.Col, cell.Row, err)
		}
		if err := f.SetCellValue(sheet.Name, name, cell.Value); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet.Name, name, err)
		}

		id, err := s.styleID(f, styles, cell.Style)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, name, name, id); err != nil {
			return fmt.Errorf("failed to style %s!%s: %w", sheet.Name, name, err)
		}
	}

	for _, m := range sheet.Merges {
		start, _ := excelize.CoordinatesToCellName(m.StartCol, m.StartRow)
		end, _ := excelize.CoordinatesToCellName(m.EndCol, m.EndRow)
		if err := f.MergeCell(sheet.Name, start, end); err != nil {
			return fmt.Errorf("failed to merge %s:%s on %s: %w", start, end, sheet.Name, err)
		}
	}

	for col, width := range sheet.ColumnWidths {
		letter, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return fmt.Errorf("invalid column %d: %w", col, err)
		}
		if err := f.SetColWidth(sheet.Name, letter, letter, width); err != nil {
			return fmt.Errorf("failed to size column %s on %s: %w", letter, sheet.Name, err)
		}
	}

	return nil
}

// styleID returns a cached excelize style for the cell style plus the uniform
// thin border.
func (s *ExcelService) styleID(f *excelize.File, cache map[models.CellStyle]int, style models.CellStyle) (int, error) {
	if id, ok := cache[style]; ok {
		return id, nil
	}

	xls := &excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Style: 1},
			{Type: "right", Style: 1},
			{Type: "top", Style: 1},
			{Type: "bottom", Style: 1},
		},
	}
	if style.Bold || style.Size > 0 {
		xls.Font = &excelize.Font{Bold: style.Bold, Size: style.Size}
	}
	if style.HCenter || style.VCenter {
		xls.Alignment = &excelize.Alignment{}
		if style.HCenter {
			xls.Alignment.Horizontal = "center"
		}
		if style.VCenter {
			xls.Alignment.Vertical = "center"
		}
	}

	id, err := f.NewStyle(xls)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	cache[style] = id
	return id, nil
}
