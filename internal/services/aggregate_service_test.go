package services

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"ie-tracker-report/internal/models"
	"ie-tracker-report/internal/utils"
)

// weekFixture is a full Monday-Friday week (21/07/2025 - 25/07/2025) with two
// users doing 10 images a day each, sorted by (workdate, user).
func weekFixture(t *testing.T) []models.WorkRecord {
	t.Helper()
	days := []string{"21/07/2025", "22/07/2025", "23/07/2025", "24/07/2025", "25/07/2025"}
	var records []models.WorkRecord
	for _, day := range days {
		records = append(records,
			testRecord(t, day, "alice@example.com", 10),
			testRecord(t, day, "bob@example.com", 10),
		)
	}
	return records
}

func newTestAggregateService() *AggregateService {
	return NewAggregateService(NewPeriodService())
}

func TestDailySummary(t *testing.T) {
	s := newTestAggregateService()
	summary := s.DailySummary(weekFixture(t), ScopeWeek)

	// 5 days x (2 user rows + 1 day total) + 1 period total.
	if len(summary) != 16 {
		t.Fatalf("Expected 16 rows, got %d", len(summary))
	}

	first := summary[0]
	if first.Label != "21/07/2025" || first.Weekday != "Monday" || first.User != "alice@example.com" {
		t.Errorf("Unexpected first row: %+v", first)
	}

	dayTotal := summary[2]
	if dayTotal.Label != "TOTAL MONDAY" {
		t.Errorf("Day total label = %q, want TOTAL MONDAY", dayTotal.Label)
	}
	if dayTotal.User != "" || dayTotal.Weekday != "" {
		t.Errorf("Day total row carries user/weekday: %+v", dayTotal)
	}
	if dayTotal.TotalDone != 20 || dayTotal.TotalReviewed != 20 || dayTotal.TotalEdited != 12 {
		t.Errorf("Day total counters = %d/%d/%d, want 20/20/12",
			dayTotal.TotalDone, dayTotal.TotalReviewed, dayTotal.TotalEdited)
	}

	last := summary[len(summary)-1]
	if last.Label != "WEEKLY TOTAL" {
		t.Errorf("Period total label = %q, want WEEKLY TOTAL", last.Label)
	}
	if last.TotalDone != 100 {
		t.Errorf("Period total done = %d, want 100", last.TotalDone)
	}
}

func TestDailySummaryMonthScope(t *testing.T) {
	s := newTestAggregateService()
	summary := s.DailySummary(weekFixture(t), ScopeMonth)

	last := summary[len(summary)-1]
	if last.Label != "MONTHLY TOTAL" {
		t.Errorf("Period total label = %q, want MONTHLY TOTAL", last.Label)
	}
}

func TestDailySummaryEmpty(t *testing.T) {
	s := newTestAggregateService()
	if summary := s.DailySummary(nil, ScopeWeek); summary != nil {
		t.Errorf("Expected nil summary for empty input, got %d rows", len(summary))
	}
}

func TestUserSummary(t *testing.T) {
	s := newTestAggregateService()
	summary := s.UserSummary(weekFixture(t), "Weekly")

	if len(summary) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(summary))
	}
	if summary[0].User != "alice@example.com" || summary[1].User != "bob@example.com" {
		t.Errorf("Users not sorted: %q, %q", summary[0].User, summary[1].User)
	}
	if summary[0].TotalDone != 50 {
		t.Errorf("Per-user total done = %d, want 50", summary[0].TotalDone)
	}

	total := summary[2]
	if total.User != "WEEKLY TOTAL" {
		t.Errorf("Total label = %q, want WEEKLY TOTAL", total.User)
	}
	if total.TotalDone != 100 || total.TotalReviewed != 100 || total.TotalEdited != 60 {
		t.Errorf("Total counters = %d/%d/%d, want 100/100/60",
			total.TotalDone, total.TotalReviewed, total.TotalEdited)
	}
}

func TestUserSummaryEmpty(t *testing.T) {
	s := newTestAggregateService()
	summary := s.UserSummary(nil, "Monthly")

	// Unlike the daily summary, an empty input still gets a zero total row.
	if len(summary) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(summary))
	}
	if summary[0].User != "MONTHLY TOTAL" || summary[0].TotalDone != 0 {
		t.Errorf("Unexpected zero total row: %+v", summary[0])
	}
}

func TestBuildAggregation(t *testing.T) {
	s := newTestAggregateService()
	result, err := s.BuildAggregation(weekFixture(t))
	if err != nil {
		t.Fatalf("BuildAggregation failed: %v", err)
	}

	if len(result.MonthlySummaries) != 1 {
		t.Fatalf("Expected 1 monthly summary, got %d", len(result.MonthlySummaries))
	}
	month := result.MonthlySummaries[0]
	if month.Month != "2025-07" || month.MonthName != "July 2025" {
		t.Errorf("Month identifiers = %q / %q", month.Month, month.MonthName)
	}
	if month.StartDate != "01/07/2025" || month.EndDate != "31/07/2025" {
		t.Errorf("Month range = %s - %s", month.StartDate, month.EndDate)
	}
	if month.TotalDone != 100 || month.UniqueUsers != 2 || month.WorkingDays != 5 {
		t.Errorf("Month totals: done=%d users=%d workdays=%d",
			month.TotalDone, month.UniqueUsers, month.WorkingDays)
	}

	if len(result.WeeklySummaries) != 1 {
		t.Fatalf("Expected 1 weekly summary, got %d", len(result.WeeklySummaries))
	}
	week := result.WeeklySummaries[0]
	if week.WeekID != "Week1" || week.WeekPeriod != "2025-W30" {
		t.Errorf("Week identifiers = %q / %q", week.WeekID, week.WeekPeriod)
	}
	if week.StartDate != "21/07/2025" || week.EndDate != "25/07/2025" {
		t.Errorf("Week range = %s - %s", week.StartDate, week.EndDate)
	}
	if len(week.DailyBreakdown) != 5 {
		t.Fatalf("Expected 5 breakdown items, got %d", len(week.DailyBreakdown))
	}
	if week.DailyBreakdown[0].TotalDone != 20 || week.DailyBreakdown[0].UsersActive != 2 {
		t.Errorf("Unexpected breakdown item: %+v", week.DailyBreakdown[0])
	}

	if len(result.UserSummaries) != 2 {
		t.Fatalf("Expected 2 user summaries, got %d", len(result.UserSummaries))
	}
	user := result.UserSummaries[0]
	if user.DaysActive != 5 || user.AvgPerDay != 10 {
		t.Errorf("User activity: days=%d avg=%d, want 5/10", user.DaysActive, user.AvgPerDay)
	}

	if len(result.DailySummaries) != 5 {
		t.Fatalf("Expected 5 daily summaries, got %d", len(result.DailySummaries))
	}

	stats := result.OverallStatistics
	if stats.TotalRecords != 10 || stats.TotalUsers != 2 {
		t.Errorf("Overall stats: records=%d users=%d", stats.TotalRecords, stats.TotalUsers)
	}
	if stats.DateRange.Start != "21/07/2025" || stats.DateRange.End != "25/07/2025" {
		t.Errorf("Overall range = %s - %s", stats.DateRange.Start, stats.DateRange.End)
	}
}

func TestBuildAggregationWeekNumbering(t *testing.T) {
	s := newTestAggregateService()

	// The Saturday record's week holds no weekday data, so it produces no
	// weekly summary and consumes no week number.
	records := []models.WorkRecord{
		testRecord(t, "26/07/2025", "alice@example.com", 10), // Saturday
		testRecord(t, "28/07/2025", "alice@example.com", 10), // Monday, next week
	}

	result, err := s.BuildAggregation(records)
	if err != nil {
		t.Fatalf("BuildAggregation failed: %v", err)
	}
	if len(result.WeeklySummaries) != 1 {
		t.Fatalf("Expected 1 weekly summary, got %d", len(result.WeeklySummaries))
	}
	week := result.WeeklySummaries[0]
	if week.WeekID != "Week1" {
		t.Errorf("WeekID = %q, want Week1", week.WeekID)
	}
	if week.StartDate != "28/07/2025" {
		t.Errorf("Week start = %s", week.StartDate)
	}
}

func TestBuildAggregationRandomized(t *testing.T) {
	s := newTestAggregateService()
	rng := rand.New(rand.NewSource(1))

	users := []string{
		"alice@example.com", "bob@example.com", "carol@example.com", "dave@example.com",
	}
	base, _ := utils.ParseDate("01/07/2025")

	var records []models.WorkRecord
	for i := 0; i < 80; i++ {
		rec := models.WorkRecord{
			WorkDate:     base.AddDate(0, 0, rng.Intn(60)),
			User:         users[rng.Intn(len(users))],
			TotalDone:    rng.Intn(50),
			Good:         rng.Intn(30),
			GoodOriginal: rng.Intn(20),
			GoodEnhanced: rng.Intn(20),
			ForDownload:  rng.Intn(10),
			Bad:          rng.Intn(15),
			Rejected:     rng.Intn(5),
			Downloaded:   rng.Intn(25),
			Uploaded:     rng.Intn(25),
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

	result, err := s.BuildAggregation(records)
	if err != nil {
		t.Fatalf("BuildAggregation failed on random input: %v", err)
	}

	var wantDone, wantReviewed, wantEdited int
	for _, rec := range records {
		wantDone += rec.TotalDone
		wantReviewed += rec.TotalReviewed
		wantEdited += rec.TotalEdited
	}

	// Months partition the records, so their totals must sum to the grand
	// totals; the same holds for user and daily summaries.
	var monthDone, userDone, userReviewed, userEdited, dayDone int
	for _, m := range result.MonthlySummaries {
		monthDone += m.TotalDone
	}
	for _, u := range result.UserSummaries {
		userDone += u.TotalDone
		userReviewed += u.TotalReviewed
		userEdited += u.TotalEdited
	}
	for _, d := range result.DailySummaries {
		dayDone += d.DailyTotals.TotalDone
	}

	if monthDone != wantDone {
		t.Errorf("Month totals = %d, want %d", monthDone, wantDone)
	}
	if userDone != wantDone || userReviewed != wantReviewed || userEdited != wantEdited {
		t.Errorf("User totals = %d/%d/%d, want %d/%d/%d",
			userDone, userReviewed, userEdited, wantDone, wantReviewed, wantEdited)
	}
	if dayDone != wantDone {
		t.Errorf("Daily totals = %d, want %d", dayDone, wantDone)
	}
	if result.OverallStatistics.TotalRecords != len(records) {
		t.Errorf("Total records = %d, want %d", result.OverallStatistics.TotalRecords, len(records))
	}
}

func TestBuildAggregationEmpty(t *testing.T) {
	s := newTestAggregateService()
	result, err := s.BuildAggregation(nil)
	if err != nil {
		t.Fatalf("BuildAggregation failed: %v", err)
	}
	if result.MonthlySummaries == nil || len(result.MonthlySummaries) != 0 {
		t.Errorf("Expected empty monthly summaries slice, got %v", result.MonthlySummaries)
	}
	if result.DailySummaries == nil || len(result.DailySummaries) != 0 {
		t.Errorf("Expected empty daily summaries slice, got %v", result.DailySummaries)
	}
}

func TestPrepareForAI(t *testing.T) {
	s := newTestAggregateService()

	var records []models.WorkRecord
	for i := 1; i <= 25; i++ {
		records = append(records,
			testRecord(t, "21/07/2025", fmt.Sprintf("user%02d@example.com", i), 10))
	}

	summary, err := s.PrepareForAI(records, 3)
	if err != nil {
		t.Fatalf("PrepareForAI failed: %v", err)
	}
	if len(summary.SampleData) != 20 {
		t.Errorf("Sample size = %d, want cap of 20", len(summary.SampleData))
	}
	if summary.TotalRecords != 25 || summary.UniqueUsers != 25 {
		t.Errorf("Totals: records=%d users=%d", summary.TotalRecords, summary.UniqueUsers)
	}
	if len(summary.Months) != 1 || summary.Months[0] != "2025-07" {
		t.Errorf("Months = %v", summary.Months)
	}
	if summary.DroppedBadDates != 3 {
		t.Errorf("Dropped rows = %d, want 3", summary.DroppedBadDates)
	}
}

func TestPrepareForAIEmpty(t *testing.T) {
	s := newTestAggregateService()
	if _, err := s.PrepareForAI(nil, 0); err == nil {
		t.Error("Expected error for empty input")
	}
}
