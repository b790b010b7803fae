package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ie-tracker-report/internal/database"
	"ie-tracker-report/internal/models"
	"ie-tracker-report/internal/utils"
	"ie-tracker-report/internal/validation"
)

// ReportService orchestrates the full pipeline: ingest, aggregate, lay out,
// and write workbooks, with an optional AI analysis path on the side.
type ReportService struct {
	dataService      *DataService
	periodService    *PeriodService
	aggregateService *AggregateService
	layoutService    *LayoutService
	excelService     *ExcelService
	aiService        *AIService
	store            database.SessionStore
	template         *validation.Template
}

// NewReportService creates a new report service
func NewReportService(
	dataService *DataService,
	periodService *PeriodService,
	aggregateService *AggregateService,
	layoutService *LayoutService,
	excelService *ExcelService,
	aiService *AIService,
	store database.SessionStore,
) *ReportService {
	return &ReportService{
		dataService:      dataService,
		periodService:    periodService,
		aggregateService: aggregateService,
		layoutService:    layoutService,
		excelService:     excelService,
		aiService:        aiService,
		store:            store,
		template:         validation.DefaultTemplate(),
	}
}

// MonthWorkbook is one generated workbook: a month of data rendered as
// Week1..WeekN sheets plus a Month sheet.
type MonthWorkbook struct {
	Month      time.Time `json:"-"`
	MonthName  string    `json:"monthName"` // e.g. "July 2025"
	Filename   string    `json:"filename"`
	WeekSheets int       `json:"weekSheets"`
	Data       []byte    `json:"-"`
}

// IngestResult summarizes a cleaned upload.
type IngestResult struct {
	Records     []models.WorkRecord `json:"-"`
	Rows        int                 `json:"rows"`
	DroppedRows int                 `json:"droppedRows"`
	Users       int                 `json:"users"`
	DateRange   models.DateRange    `json:"dateRange"`
}

// Ingest loads and cleans an uploaded file and caches the result under the
// session ID.
func (s *ReportService) Ingest(ctx context.Context, sessionID, filename string, r io.Reader) (*IngestResult, error) {
	table, err := s.dataService.LoadFile(filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	records, dropped := s.dataService.Clean(table)
	if dropped > 0 {
		log.Printf("WARNING: Dropped %d rows with unparseable dates from %s", dropped, filename)
	}

	result := &IngestResult{
		Records:     records,
		Rows:        len(records),
		DroppedRows: dropped,
	}
	users := make(map[string]struct{})
	for _, rec := range records {
		users[rec.User] = struct{}{}
	}
	result.Users = len(users)
	if len(records) > 0 {
		result.DateRange = models.DateRange{
			Start: utils.FormatDate(records[0].WorkDate),
			End:   utils.FormatDate(records[len(records)-1].WorkDate),
		}
	}

	entry := database.RawDataEntry{
		Records:     records,
		Columns:     table.Columns,
		Rows:        len(records),
		DroppedRows: dropped,
		DateRange:   result.DateRange,
		Timestamp:   time.Now(),
	}
	if err := s.store.StoreRawData(ctx, sessionID, entry); err != nil {
		return nil, fmt.Errorf("failed to cache uploaded data: %w", err)
	}

	return result, nil
}

// SessionRecords returns the cleaned records cached for a session.
func (s *ReportService) SessionRecords(ctx context.Context, sessionID string) ([]models.WorkRecord, error) {
	raw, err := s.store.GetRawData(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("no data uploaded for session %s", sessionID)
	}
	return raw.Records, nil
}

// GenerateWorkbooks builds one workbook per month present in the records.
// Months with no records are skipped.
func (s *ReportService) GenerateWorkbooks(records []models.WorkRecord) ([]MonthWorkbook, error) {
	months := s.periodService.MonthsIn(records)
	if len(months) == 0 {
		return nil, fmt.Errorf("no valid dates in the dataset")
	}

	var workbooks []MonthWorkbook
	for _, month := range months {
		monthRecords := s.periodService.FilterByMonth(records, month)
		if len(monthRecords) == 0 {
			continue
		}

		contents, weekCount := s.monthContents(records, monthRecords, month)
		doc := s.layoutService.Render(contents)
		data, err := s.excelService.WorkbookBytes(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to build workbook for %s: %w", month.Format("January 2006"), err)
		}

		workbooks = append(workbooks, MonthWorkbook{
			Month:      month,
			MonthName:  month.Format("January 2006"),
			Filename:   workbookFilename(month),
			WeekSheets: weekCount,
			Data:       data,
		})
	}

	return workbooks, nil
}

// SaveWorkbooks writes the workbooks into outputDir, creating it if needed,
// and returns the written paths.
func (s *ReportService) SaveWorkbooks(workbooks []MonthWorkbook, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, wb := range workbooks {
		path := filepath.Join(outputDir, wb.Filename)
		if err := os.WriteFile(path, wb.Data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// monthContents builds the sheet contents for one month: Week1..WeekN then
// Month. Weeks whose Monday-Friday window holds no records are skipped
// without consuming a week number.
func (s *ReportService) monthContents(all, monthRecords []models.WorkRecord, month time.Time) ([]models.SheetContent, int) {
	var contents []models.SheetContent

	// Weekly sheets filter from the full dataset: a week straddling a month
	// boundary carries its out-of-month days on both months' workbooks.
	weekNum := 0
	for _, monday := range s.periodService.WeeksInMonth(all, month) {
		weekRecords := s.periodService.FilterByWeek(all, monday)
		if len(weekRecords) == 0 {
			continue
		}
		weekNum++

		start := utils.FormatDate(monday)
		end := utils.FormatDate(utils.FridayOf(monday))
		dates := fmt.Sprintf("%s - %s", start, end)
		contents = append(contents, models.SheetContent{
			Name:        fmt.Sprintf("Week%d", weekNum),
			Title:       fmt.Sprintf("Image Enhancement Report for Week%d (%s)", weekNum, dates),
			PeriodDates: dates,
			IsWeek:      true,
			DailyRows:   s.aggregateService.DailySummary(weekRecords, ScopeWeek),
			UserRows:    s.aggregateService.UserSummary(weekRecords, "Weekly"),
		})
	}

	start := utils.FormatDate(utils.MonthStart(month))
	end := utils.FormatDate(utils.MonthEnd(month))
	dates := fmt.Sprintf("%s - %s", start, end)
	contents = append(contents, models.SheetContent{
		Name:        "Month",
		Title:       fmt.Sprintf("Image Enhancement Report for Month %s (%s)", month.Format("January 2006"), dates),
		PeriodDates: dates,
		IsWeek:      false,
		DailyRows:   s.aggregateService.DailySummary(monthRecords, ScopeMonth),
		UserRows:    s.aggregateService.UserSummary(monthRecords, "Monthly"),
	})

	return contents, weekNum
}

// workbookFilename names a month's workbook, e.g.
// Image_Enhancement_Report_2025_07_July.xlsx.
func workbookFilename(month time.Time) string {
	return fmt.Sprintf("Image_Enhancement_Report_%d_%02d_%s.xlsx",
		month.Year(), int(month.Month()), month.Month().String())
}

// AnalysisResult bundles an AI-produced aggregation with its validation
// outcome. Data reflects any in-place corrections the validator applied.
type AnalysisResult struct {
	Data   map[string]interface{} `json:"data"`
	Report *validation.Report     `json:"validation"`
}

// AnalyzeWithAI runs the session's cached dataset through the AI provider
// and validates the returned aggregation against the template. Valid results
// are cached as the session's processed data.
func (s *ReportService) AnalyzeWithAI(ctx context.Context, sessionID string) (*AnalysisResult, error) {
	raw, err := s.store.GetRawData(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("no data uploaded for session %s", sessionID)
	}

	summary, err := s.aggregateService.PrepareForAI(raw.Records, raw.DroppedRows)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data for analysis: %w", err)
	}

	data, err := s.aiService.AnalyzeAggregation(ctx, summary, s.template.ExpectedOutput())
	if err != nil {
		return nil, fmt.Errorf("AI analysis failed: %w", err)
	}

	report := validation.Validate(data, s.template)
	result := &AnalysisResult{Data: data, Report: report}
	if !report.IsValid {
		log.Printf("WARNING: AI analysis for session %s failed validation: %v", sessionID, report.Errors)
		return result, nil
	}

	entry := database.ProcessedEntry{
		Data:             data,
		Timestamp:        time.Now(),
		ValidationStatus: "validated",
	}
	if err := s.store.StoreProcessedData(ctx, sessionID, entry); err != nil {
		return nil, fmt.Errorf("failed to cache analysis: %w", err)
	}

	return result, nil
}

// RecordsFromAggregation reconstructs work records from a validated external
// aggregation's daily summaries, so an externally-produced aggregation can
// flow through the same layout and workbook pipeline as uploaded data. Only
// the counters present in daily user records survive the round trip; the
// remaining raw counters stay zero.
func (s *ReportService) RecordsFromAggregation(agg *models.AggregationResult) ([]models.WorkRecord, error) {
	var records []models.WorkRecord
	for _, day := range agg.DailySummaries {
		date, err := utils.ParseDate(day.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q in daily summaries: %w", day.Date, err)
		}
		for _, ur := range day.UserRecords {
			rec := models.WorkRecord{
				WorkDate:   date,
				User:       ur.User,
				TotalDone:  ur.TotalDone,
				Good:       ur.Good,
				Bad:        ur.Bad,
				Rejected:   ur.Rejected,
				Downloaded: ur.Downloaded,
				Uploaded:   ur.Uploaded,
			}
			rec.ComputeDerived()
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("aggregation has no daily user records")
	}

	// The producer's section order is not trusted; the summary builders
	// require (workdate, user) order.
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].WorkDate.Equal(records[j].WorkDate) {
			return records[i].WorkDate.Before(records[j].WorkDate)
		}
		return records[i].User < records[j].User
	})

	return records, nil
}

// BuildFromAggregation renders workbooks from a validated external
// aggregation.
func (s *ReportService) BuildFromAggregation(agg *models.AggregationResult) ([]MonthWorkbook, error) {
	records, err := s.RecordsFromAggregation(agg)
	if err != nil {
		return nil, err
	}
	return s.GenerateWorkbooks(records)
}

// Aggregate builds the internal aggregation for the session's cached data.
func (s *ReportService) Aggregate(ctx context.Context, sessionID string) (*models.AggregationResult, error) {
	records, err := s.SessionRecords(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.aggregateService.BuildAggregation(records)
}
