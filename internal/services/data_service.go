package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ie-tracker-report/internal/models"
	"ie-tracker-report/internal/utils"
)

// RawTable is a loosely-typed input table as loaded from a CSV or XLSX file.
// It never travels past the cleaner; downstream code only sees WorkRecords.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// DataService loads raw work-log tables and cleans them into canonical records
type DataService struct{}

// NewDataService creates a new data service
func NewDataService() *DataService {
	return &DataService{}
}

// LoadFile parses an uploaded file into a raw table based on its extension.
// CSV and XLSX/XLS are supported.
func (s *DataService) LoadFile(filename string, r io.Reader) (*RawTable, error) {
	ext := strings.ToLower(filename)
	if idx := strings.LastIndex(ext, "."); idx >= 0 {
		ext = ext[idx+1:]
	}

	switch ext {
	case "csv":
		return s.loadCSV(r)
	case "xlsx", "xls":
		return s.loadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

// loadCSV reads a CSV table, tolerating a UTF-8 BOM and ragged rows.
func (s *DataService) loadCSV(r io.Reader) (*RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}

	return &RawTable{Columns: rows[0], Rows: rows[1:]}, nil
}

// loadXLSX reads the first sheet of a workbook as a raw table.
func (s *DataService) loadXLSX(r io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s contains no rows", sheets[0])
	}

	return &RawTable{Columns: rows[0], Rows: rows[1:]}, nil
}

// Clean normalizes a raw table into canonical work records, sorted by
// (workdate, user) ascending. Column names are trimmed, artifact columns
// ("Unnamed..." or empty) are dropped, missing counter columns are treated
// as all-zero and non-numeric or negative counter values coerce to 0. Rows
// whose date fails to parse as DD/MM/YYYY are dropped; the count of dropped
// rows is returned for caller logging.
func (s *DataService) Clean(table *RawTable) ([]models.WorkRecord, int) {
	colIndex := make(map[string]int)
	for i, name := range table.Columns {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "Unnamed") {
			continue
		}
		colIndex[name] = i
	}

	field := func(row []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]models.WorkRecord, 0, len(table.Rows))
	dropped := 0

	for _, row := range table.Rows {
		workDate, err := utils.ParseDate(field(row, "workdate"))
		if err != nil {
			dropped++
			continue
		}

		rec := models.WorkRecord{
			WorkDate:     workDate,
			User:         field(row, "useremail"),
			TotalDone:    coerceCounter(field(row, "TotalDone")),
			Good:         coerceCounter(field(row, "Good")),
			GoodOriginal: coerceCounter(field(row, "GoodOriginal")),
			GoodEnhanced: coerceCounter(field(row, "GoodEnhanced")),
			ForDownload:  coerceCounter(field(row, "ForDownload")),
			Bad:          coerceCounter(field(row, "Bad")),
			Rejected:     coerceCounter(field(row, "Rejected")),
			Downloaded:   coerceCounter(field(row, "Downloaded")),
			Uploaded:     coerceCounter(field(row, "Uploaded")),
		}
		rec.ComputeDerived()
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].WorkDate.Equal(records[j].WorkDate) {
			return records[i].WorkDate.Before(records[j].WorkDate)
		}
		return records[i].User < records[j].User
	})

	return records, dropped
}

// coerceCounter parses a raw counter cell. Non-numeric and negative values
// coerce to 0; fractional values truncate.
func coerceCounter(value string) int {
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil {
			return 0
		}
		n = int(f)
	}
	if n < 0 {
		return 0
	}
	return n
}
