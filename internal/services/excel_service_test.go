package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"ie-tracker-report/internal/models"
)

func TestWriteWorkbook(t *testing.T) {
	layout := NewLayoutService()
	excel := NewExcelService()

	content := layoutFixture()
	monthContent := content
	monthContent.Name = "Month"

	f, err := excel.WriteWorkbook(layout.Render([]models.SheetContent{content, monthContent}))
	if err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Week1" || sheets[1] != "Month" {
		t.Fatalf("Sheet list = %v", sheets)
	}

	title, err := f.GetCellValue("Week1", "A1")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if title != content.Title {
		t.Errorf("Title cell = %q", title)
	}

	if got, _ := f.GetCellValue("Week1", "A3"); got != "Work Date" {
		t.Errorf("Header cell = %q", got)
	}
	if got, _ := f.GetCellValue("Week1", "C4"); got != "10" {
		t.Errorf("Value cell = %q, want 10", got)
	}

	merges, err := f.GetMergeCells("Week1")
	if err != nil {
		t.Fatalf("GetMergeCells failed: %v", err)
	}
	foundTitle := false
	for _, m := range merges {
		if m.GetStartAxis() == "A1" && m.GetEndAxis() == "M1" {
			foundTitle = true
		}
	}
	if !foundTitle {
		t.Errorf("Title merge missing: %v", merges)
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	excel := NewExcelService()
	if _, err := excel.WriteWorkbook(&models.GridDocument{}); err == nil {
		t.Error("Expected error for empty document")
	}
	if _, err := excel.WriteWorkbook(nil); err == nil {
		t.Error("Expected error for nil document")
	}
}

func TestWorkbookBytes(t *testing.T) {
	layout := NewLayoutService()
	excel := NewExcelService()

	data, err := excel.WorkbookBytes(layout.Render([]models.SheetContent{layoutFixture()}))
	if err != nil {
		t.Fatalf("WorkbookBytes failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Workbook bytes empty")
	}

	// The bytes round-trip as a readable workbook.
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Serialized workbook unreadable: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Week1" {
		t.Errorf("Sheet list = %v", sheets)
	}
}
