package services

import (
	"testing"

	"ie-tracker-report/internal/models"
)

func layoutFixture() models.SheetContent {
	return models.SheetContent{
		Name:        "Week1",
		Title:       "Image Enhancement Report for Week1 (21/07/2025 - 25/07/2025)",
		PeriodDates: "21/07/2025 - 25/07/2025",
		IsWeek:      true,
		DailyRows: []models.SummaryRow{
			{Label: "21/07/2025", Weekday: "Monday", User: "alice@example.com", TotalDone: 10},
			{Label: "21/07/2025", Weekday: "Monday", User: "bob@example.com", TotalDone: 8},
			{Label: "TOTAL MONDAY", TotalDone: 18},
			{Label: "22/07/2025", Weekday: "Tuesday", User: "alice@example.com", TotalDone: 7},
			{Label: "TOTAL TUESDAY", TotalDone: 7},
			{Label: "WEEKLY TOTAL", TotalDone: 25},
		},
		UserRows: []models.UserSummaryRow{
			{User: "alice@example.com", TotalDone: 17},
			{User: "bob@example.com", TotalDone: 8},
			{User: "WEEKLY TOTAL", TotalDone: 25},
		},
	}
}

func hasMerge(t *testing.T, sheet models.GridSheet, r1, c1, r2, c2 int) bool {
	t.Helper()
	for _, m := range sheet.Merges {
		if m.StartRow == r1 && m.StartCol == c1 && m.EndRow == r2 && m.EndCol == c2 {
			return true
		}
	}
	return false
}

func mustCell(t *testing.T, sheet models.GridSheet, row, col int) models.GridCell {
	t.Helper()
	cell, ok := sheet.Cell(row, col)
	if !ok {
		t.Fatalf("No cell at (%d, %d)", row, col)
	}
	return cell
}

func TestRenderSheetHeader(t *testing.T) {
	s := NewLayoutService()
	doc := s.Render([]models.SheetContent{layoutFixture()})
	if len(doc.Sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %d", len(doc.Sheets))
	}
	sheet := doc.Sheets[0]

	if sheet.Name != "Week1" {
		t.Errorf("Sheet name = %q", sheet.Name)
	}

	title := mustCell(t, sheet, 1, 1)
	if title.Value != layoutFixture().Title {
		t.Errorf("Title = %v", title.Value)
	}
	if !title.Style.Bold || title.Style.Size != 14 || !title.Style.HCenter {
		t.Errorf("Title style = %+v", title.Style)
	}
	if !hasMerge(t, sheet, 1, 1, 1, 13) {
		t.Error("Title not merged across the full width")
	}

	reviewer := mustCell(t, sheet, 2, 4)
	if reviewer.Value != "REVIEWER" || !hasMerge(t, sheet, 2, 4, 2, 10) {
		t.Errorf("REVIEWER header wrong: %+v, merges %v", reviewer, sheet.Merges)
	}
	editor := mustCell(t, sheet, 2, 11)
	if editor.Value != "EDITOR" || !hasMerge(t, sheet, 2, 11, 2, 13) {
		t.Errorf("EDITOR header wrong: %+v", editor)
	}

	if got := mustCell(t, sheet, 3, 1); got.Value != "Work Date" || !got.Style.Bold {
		t.Errorf("First header = %+v", got)
	}
	if got := mustCell(t, sheet, 3, 13); got.Value != "Total Edited" {
		t.Errorf("Last header = %v", got.Value)
	}
}

func TestRenderSheetDailyBlock(t *testing.T) {
	s := NewLayoutService()
	sheet := s.Render([]models.SheetContent{layoutFixture()}).Sheets[0]

	// Two consecutive rows share 21/07/2025, so the date cell merges vertically
	// and centers both ways.
	first := mustCell(t, sheet, 4, 1)
	if first.Value != "21/07/2025" {
		t.Errorf("First daily row label = %v", first.Value)
	}
	if !hasMerge(t, sheet, 4, 1, 5, 1) {
		t.Error("Shared date cells not merged")
	}
	if !first.Style.HCenter || !first.Style.VCenter {
		t.Errorf("Merged date cell style = %+v", first.Style)
	}
	if got := mustCell(t, sheet, 4, 3); got.Value != 10 {
		t.Errorf("First value cell = %v, want 10", got.Value)
	}

	// Total rows are bold and never merged.
	dayTotal := mustCell(t, sheet, 6, 1)
	if dayTotal.Value != "TOTAL MONDAY" || !dayTotal.Style.Bold {
		t.Errorf("Day total row = %+v", dayTotal)
	}
	for _, m := range sheet.Merges {
		if m.StartCol == 1 && m.StartRow >= 6 {
			t.Errorf("Unexpected date merge at row %d", m.StartRow)
		}
	}

	// A single-row date gets no merge.
	single := mustCell(t, sheet, 7, 1)
	if single.Value != "22/07/2025" {
		t.Errorf("Single date row = %v", single.Value)
	}

	weekTotal := mustCell(t, sheet, 9, 1)
	if weekTotal.Value != "WEEKLY TOTAL" || !weekTotal.Style.Bold {
		t.Errorf("Period total row = %+v", weekTotal)
	}
}

func TestRenderSheetUserBlock(t *testing.T) {
	s := NewLayoutService()
	sheet := s.Render([]models.SheetContent{layoutFixture()}).Sheets[0]

	// Daily block ends on row 9, so the summary title lands on row 12 after the
	// two blank rows.
	title := mustCell(t, sheet, 12, 2)
	want := "Summary Of All Users (21/07/2025 - 25/07/2025)"
	if title.Value != want {
		t.Errorf("Summary title = %v, want %q", title.Value, want)
	}
	if !title.Style.Bold || title.Style.Size != 12 {
		t.Errorf("Summary title style = %+v", title.Style)
	}
	if !hasMerge(t, sheet, 12, 2, 12, 13) {
		t.Error("Summary title not merged")
	}

	if !hasMerge(t, sheet, 14, 4, 14, 10) || !hasMerge(t, sheet, 14, 11, 14, 13) {
		t.Error("Summary REVIEWER/EDITOR headers not merged")
	}

	if got := mustCell(t, sheet, 15, 2); got.Value != "User" {
		t.Errorf("First summary header = %v", got.Value)
	}
	if got := mustCell(t, sheet, 15, 13); got.Value != "Total Edited" {
		t.Errorf("Last summary header = %v", got.Value)
	}

	if got := mustCell(t, sheet, 16, 2); got.Value != "alice@example.com" || got.Style.Bold {
		t.Errorf("First user row = %+v", got)
	}
	if got := mustCell(t, sheet, 16, 3); got.Value != 17 {
		t.Errorf("First user total = %v, want 17", got.Value)
	}
	total := mustCell(t, sheet, 18, 2)
	if total.Value != "WEEKLY TOTAL" || !total.Style.Bold {
		t.Errorf("Summary total row = %+v", total)
	}

	if sheet.MaxRow != 18 || sheet.MaxCol != 13 {
		t.Errorf("Sheet extent = (%d, %d), want (18, 13)", sheet.MaxRow, sheet.MaxCol)
	}
	if sheet.ColumnWidths[2] != 35 {
		t.Errorf("User column width = %v, want 35", sheet.ColumnWidths[2])
	}
}

func TestIsTotalLabel(t *testing.T) {
	for _, label := range []string{"TOTAL MONDAY", "WEEKLY TOTAL", "MONTHLY TOTAL", "JULY 2025 TOTAL"} {
		if !isTotalLabel(label) {
			t.Errorf("isTotalLabel(%q) = false", label)
		}
	}
	for _, label := range []string{"21/07/2025", "alice@example.com", ""} {
		if isTotalLabel(label) {
			t.Errorf("isTotalLabel(%q) = true", label)
		}
	}
}
