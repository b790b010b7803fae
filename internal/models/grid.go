package models

// GridDocument is the layout engine's output: an ordered list of named sheets,
// each a sparse 2-D grid of typed cells plus merge regions. The excel service
// turns a GridDocument into a workbook without any further layout decisions.
type GridDocument struct {
	Sheets []GridSheet `json:"sheets"`
}

// GridSheet is one sheet of the document. Coordinates are 1-based, matching
// spreadsheet conventions.
type GridSheet struct {
	Name         string          `json:"name"`
	Cells        []GridCell      `json:"cells"`
	Merges       []MergeRegion   `json:"merges"`
	ColumnWidths map[int]float64 `json:"columnWidths"` // column index -> width
	MaxRow       int             `json:"maxRow"`
	MaxCol       int             `json:"maxCol"`
}

// GridCell is a single populated cell.
type GridCell struct {
	Row   int       `json:"row"`
	Col   int       `json:"col"`
	Value any       `json:"value"` // string or int
	Style CellStyle `json:"style"`
}

// CellStyle carries the styling the report contract cares about. Borders are
// uniform across all populated cells and applied by the excel service, so
// they are not modeled per cell.
type CellStyle struct {
	Bold    bool    `json:"bold"`
	Size    float64 `json:"size,omitempty"` // font size, 0 = default
	HCenter bool    `json:"hCenter"`
	VCenter bool    `json:"vCenter"`
}

// MergeRegion is a rectangular cell span collapsed to one value.
type MergeRegion struct {
	StartRow int `json:"startRow"`
	StartCol int `json:"startCol"`
	EndRow   int `json:"endRow"`
	EndCol   int `json:"endCol"`
}

// SheetContent is the layout engine's input for a single sheet: a period's
// daily summary rows and user summary rows plus the title strings. Both the
// internal aggregation path and the validated external-aggregation path
// reduce to this shape before layout.
type SheetContent struct {
	Name        string           `json:"name"`  // "Week1".."WeekN" or "Month"
	Title       string           `json:"title"` // merged across the full width
	PeriodDates string           `json:"periodDates"`
	IsWeek      bool             `json:"isWeek"`
	DailyRows   []SummaryRow     `json:"dailyRows"`
	UserRows    []UserSummaryRow `json:"userRows"`
}

// Cell returns the cell at (row, col) if populated.
func (s *GridSheet) Cell(row, col int) (GridCell, bool) {
	for _, c := range s.Cells {
		if c.Row == row && c.Col == col {
			return c, true
		}
	}
	return GridCell{}, false
}

// Set places a value at (row, col), replacing any existing cell there.
func (s *GridSheet) Set(row, col int, value any, style CellStyle) {
	for i := range s.Cells {
		if s.Cells[i].Row == row && s.Cells[i].Col == col {
			s.Cells[i].Value = value
			s.Cells[i].Style = style
			return
		}
	}
	s.Cells = append(s.Cells, GridCell{Row: row, Col: col, Value: value, Style: style})
}

// SetStyle replaces the style of an existing cell, keeping its value.
func (s *GridSheet) SetStyle(row, col int, style CellStyle) {
	for i := range s.Cells {
		if s.Cells[i].Row == row && s.Cells[i].Col == col {
			s.Cells[i].Style = style
			return
		}
	}
}

// Merge records a rectangular merge region.
func (s *GridSheet) Merge(startRow, startCol, endRow, endCol int) {
	s.Merges = append(s.Merges, MergeRegion{
		StartRow: startRow, StartCol: startCol,
		EndRow: endRow, EndCol: endCol,
	})
}
