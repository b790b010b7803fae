package services

import (
	"strings"

	"ie-tracker-report/internal/models"
)

// Column headers for the daily block, fixed 13-column order.
var dailyHeaders = []string{
	"Work Date", "User", "Total Done", "Good", "Good Original", "Good Enhanced",
	"For Editing", "Bad", "Rejected", "Total Reviewed", "Downloaded", "Uploaded", "Total Edited",
}

// Column headers for the user summary block (no Work Date), starting at column B.
var userHeaders = []string{
	"User", "Total Done", "Good", "Good Original", "Good Enhanced",
	"For Editing", "Bad", "Rejected", "Total Reviewed", "Downloaded", "Uploaded", "Total Edited",
}

// Fixed column widths; a static lookup, never computed from content.
var columnWidths = map[int]float64{
	1:  12, // Work Date
	2:  35, // User (emails)
	3:  10, // Total Done
	4:  8,  // Good
	5:  12, // Good Original
	6:  12, // Good Enhanced
	7:  10, // For Editing
	8:  8,  // Bad
	9:  10, // Rejected
	10: 12, // Total Reviewed
	11: 12, // Downloaded
	12: 10, // Uploaded
	13: 12, // Total Edited
	14: 12, // summary alignment spill
}

const sheetWidth = 13

// LayoutService renders aggregated sheet content into a grid document:
// title and sub-header merges, the daily block with per-date cell merges and
// bolded total rows, then the user summary block.
type LayoutService struct{}

// NewLayoutService creates a new layout service
func NewLayoutService() *LayoutService {
	return &LayoutService{}
}

// Render lays out one grid sheet per sheet content, in the given order.
func (s *LayoutService) Render(contents []models.SheetContent) *models.GridDocument {
	doc := &models.GridDocument{Sheets: make([]models.GridSheet, 0, len(contents))}
	for _, content := range contents {
		doc.Sheets = append(doc.Sheets, s.renderSheet(content))
	}
	return doc
}

func (s *LayoutService) renderSheet(content models.SheetContent) models.GridSheet {
	sheet := models.GridSheet{
		Name:         content.Name,
		ColumnWidths: columnWidths,
		MaxCol:       sheetWidth,
	}

	bold := models.CellStyle{Bold: true}
	boldCenter := models.CellStyle{Bold: true, HCenter: true}

	// Row 1: title merged across the full width.
	sheet.Set(1, 1, content.Title, models.CellStyle{Bold: true, Size: 14, HCenter: true})
	sheet.Merge(1, 1, 1, sheetWidth)

	// Row 2: REVIEWER spans the reviewer metrics, EDITOR the editor metrics.
	sheet.Set(2, 4, "REVIEWER", boldCenter)
	sheet.Merge(2, 4, 2, 10)
	sheet.Set(2, 11, "EDITOR", boldCenter)
	sheet.Merge(2, 11, 2, sheetWidth)

	// Row 3: column headers.
	for col, header := range dailyHeaders {
		sheet.Set(3, col+1, header, boldCenter)
	}

	// Rows 4+: daily summary rows in aggregator order. Consecutive per-user
	// rows sharing a date label merge into one centered date cell; total rows
	// never merge.
	row := 4
	currentDate := ""
	dateStart := 0

	flushDateMerge := func(endRow int) {
		if currentDate != "" && endRow > dateStart {
			sheet.Merge(dateStart, 1, endRow, 1)
			sheet.SetStyle(dateStart, 1, models.CellStyle{HCenter: true, VCenter: true})
		}
	}

	for _, item := range content.DailyRows {
		style := models.CellStyle{}
		if isTotalLabel(item.Label) {
			style = bold
			flushDateMerge(row - 1)
			currentDate = ""
		} else if item.Label != currentDate {
			flushDateMerge(row - 1)
			currentDate = item.Label
			dateStart = row
		}

		sheet.Set(row, 1, item.Label, style)
		sheet.Set(row, 2, item.User, style)
		for i, v := range summaryValues(item) {
			sheet.Set(row, 3+i, v, style)
		}
		row++
	}
	flushDateMerge(row - 1)

	// User summary block, two blank rows below the daily block, aligned to
	// column B.
	row += 2
	sheet.Set(row, 2, "Summary Of All Users ("+content.PeriodDates+")", models.CellStyle{Bold: true, Size: 12, HCenter: true})
	sheet.Merge(row, 2, row, sheetWidth)
	row += 2

	sheet.Set(row, 4, "REVIEWER", boldCenter)
	sheet.Merge(row, 4, row, 10)
	sheet.Set(row, 11, "EDITOR", boldCenter)
	sheet.Merge(row, 11, row, sheetWidth)
	row++

	for col, header := range userHeaders {
		sheet.Set(row, col+2, header, boldCenter)
	}
	row++

	for _, item := range content.UserRows {
		style := models.CellStyle{}
		if isTotalLabel(item.User) {
			style = bold
		}
		sheet.Set(row, 2, item.User, style)
		for i, v := range userSummaryValues(item) {
			sheet.Set(row, 3+i, v, style)
		}
		row++
	}

	sheet.MaxRow = row - 1
	return sheet
}

// isTotalLabel reports whether a row label marks a synthetic total row.
func isTotalLabel(label string) bool {
	upper := strings.ToUpper(label)
	return strings.Contains(upper, "TOTAL") ||
		strings.Contains(upper, "WEEKLY") ||
		strings.Contains(upper, "MONTHLY")
}

func summaryValues(row models.SummaryRow) []int {
	return []int{
		row.TotalDone, row.Good, row.GoodOriginal, row.GoodEnhanced, row.ForEditing,
		row.Bad, row.Rejected, row.TotalReviewed, row.Downloaded, row.Uploaded, row.TotalEdited,
	}
}

func userSummaryValues(row models.UserSummaryRow) []int {
	return []int{
		row.TotalDone, row.Good, row.GoodOriginal, row.GoodEnhanced, row.ForEditing,
		row.Bad, row.Rejected, row.TotalReviewed, row.Downloaded, row.Uploaded, row.TotalEdited,
	}
}
