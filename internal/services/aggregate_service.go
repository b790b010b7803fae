package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ie-tracker-report/internal/models"
	"ie-tracker-report/internal/utils"
)

// PeriodScope selects the label of the trailing synthetic total row.
type PeriodScope string

const (
	ScopeWeek  PeriodScope = "week"
	ScopeMonth PeriodScope = "month"
)

// AggregateService computes daily, weekly, monthly and per-user summaries
// with synthetic total rows. Both the interactive and batch paths go through
// this single service.
type AggregateService struct {
	periods *PeriodService
}

// NewAggregateService creates a new aggregate service
func NewAggregateService(periods *PeriodService) *AggregateService {
	return &AggregateService{periods: periods}
}

// DailySummary groups records by workdate ascending and emits, per date, one
// row per user followed by a synthetic "TOTAL <WEEKDAY>" row, then one final
// "WEEKLY TOTAL" or "MONTHLY TOTAL" row over the whole input. An empty input
// yields an empty summary with no total row. The input must already be sorted
// by (workdate, user); the cleaner guarantees that.
func (s *AggregateService) DailySummary(records []models.WorkRecord, scope PeriodScope) []models.SummaryRow {
	if len(records) == 0 {
		return nil
	}

	var summary []models.SummaryRow
	var periodTotal models.SummaryRow

	i := 0
	for i < len(records) {
		date := records[i].WorkDate
		weekday := utils.WeekdayName(date)
		dateStr := utils.FormatDate(date)

		dayTotal := models.SummaryRow{
			Label: "TOTAL " + strings.ToUpper(weekday),
		}

		for i < len(records) && records[i].WorkDate.Equal(date) {
			rec := records[i]
			summary = append(summary, models.SummaryRow{
				Label:         dateStr,
				Weekday:       weekday,
				User:          rec.User,
				TotalDone:     rec.TotalDone,
				Good:          rec.Good,
				GoodOriginal:  rec.GoodOriginal,
				GoodEnhanced:  rec.GoodEnhanced,
				ForEditing:    rec.ForEditing,
				Bad:           rec.Bad,
				Rejected:      rec.Rejected,
				TotalReviewed: rec.TotalReviewed,
				Downloaded:    rec.Downloaded,
				Uploaded:      rec.Uploaded,
				TotalEdited:   rec.TotalEdited,
			})
			addRecord(&dayTotal, rec)
			addRecord(&periodTotal, rec)
			i++
		}

		summary = append(summary, dayTotal)
	}

	if scope == ScopeWeek {
		periodTotal.Label = "WEEKLY TOTAL"
	} else {
		periodTotal.Label = "MONTHLY TOTAL"
	}
	summary = append(summary, periodTotal)

	return summary
}

// UserSummary groups records by user, sorted ascending by identifier, and
// appends a synthetic "<PERIOD> TOTAL" row. Unlike DailySummary, an empty
// input still yields the total row with all-zero counters.
func (s *AggregateService) UserSummary(records []models.WorkRecord, periodName string) []models.UserSummaryRow {
	byUser := make(map[string]*models.UserSummaryRow)
	var users []string
	total := models.UserSummaryRow{User: strings.ToUpper(periodName) + " TOTAL"}

	for _, rec := range records {
		row, ok := byUser[rec.User]
		if !ok {
			row = &models.UserSummaryRow{User: rec.User}
			byUser[rec.User] = row
			users = append(users, rec.User)
		}
		addUserRecord(row, rec)
		addUserRecord(&total, rec)
	}
	sort.Strings(users)

	summary := make([]models.UserSummaryRow, 0, len(users)+1)
	for _, user := range users {
		summary = append(summary, *byUser[user])
	}
	summary = append(summary, total)

	return summary
}

// BuildAggregation computes the canonical AggregationResult over the full
// record set: one monthly summary per month, one weekly summary per week with
// its daily breakdown, per-user totals and per-date daily summaries. The
// round-trip totals invariant is re-verified before returning.
func (s *AggregateService) BuildAggregation(records []models.WorkRecord) (*models.AggregationResult, error) {
	result := &models.AggregationResult{
		MonthlySummaries: []models.MonthlySummary{},
		WeeklySummaries:  []models.WeeklySummary{},
		UserSummaries:    []models.UserPeriodTotals{},
		DailySummaries:   []models.DailySummary{},
	}
	if len(records) == 0 {
		return result, nil
	}

	for _, month := range s.periods.MonthsIn(records) {
		result.MonthlySummaries = append(result.MonthlySummaries,
			s.monthSummary(s.periods.FilterByMonth(records, month), month))
	}

	// Weeks holding only weekend records are skipped without consuming a
	// week number.
	weekNum := 0
	for _, monday := range s.weeksIn(records) {
		weekRecords := s.periods.FilterByWeek(records, monday)
		if len(weekRecords) == 0 {
			continue
		}
		weekNum++
		result.WeeklySummaries = append(result.WeeklySummaries,
			s.weekSummary(weekRecords, monday, fmt.Sprintf("Week%d", weekNum)))
	}

	result.UserSummaries = s.userPeriodTotals(records)
	result.DailySummaries = s.dailySummaries(records)

	result.OverallStatistics = models.OverallStatistics{
		TotalRecords: len(records),
		DateRange: models.DateRange{
			Start: utils.FormatDate(records[0].WorkDate),
			End:   utils.FormatDate(records[len(records)-1].WorkDate),
		},
		TotalUsers: len(result.UserSummaries),
	}

	if err := s.verifyTotals(records, result); err != nil {
		return nil, err
	}
	return result, nil
}

// PrepareForAI builds the data summary sent to the analysis provider: date
// range, per-period rollups and a sample of at most 20 raw rows.
func (s *AggregateService) PrepareForAI(records []models.WorkRecord, droppedRows int) (*models.DataSummary, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to summarize")
	}

	agg, err := s.BuildAggregation(records)
	if err != nil {
		return nil, err
	}

	months := make([]string, 0, len(agg.MonthlySummaries))
	for _, m := range agg.MonthlySummaries {
		months = append(months, m.Month)
	}

	sample := records
	if len(sample) > 20 {
		sample = sample[:20]
	}

	columns := append([]string{}, models.ExpectedColumns...)
	columns = append(columns, "ForEditing", "TotalReviewed", "TotalEdited")

	return &models.DataSummary{
		DateRange:       agg.OverallStatistics.DateRange,
		TotalRecords:    len(records),
		UniqueUsers:     agg.OverallStatistics.TotalUsers,
		Months:          months,
		MonthSummaries:  agg.MonthlySummaries,
		WeeklySummaries: agg.WeeklySummaries,
		UserSummaries:   agg.UserSummaries,
		SampleData:      sample,
		Columns:         columns,
		DroppedBadDates: droppedRows,
	}, nil
}

// weeksIn returns the Mondays of all weeks touched by any weekday record,
// ascending, across the whole input.
func (s *AggregateService) weeksIn(records []models.WorkRecord) []time.Time {
	seen := make(map[time.Time]bool)
	var weeks []time.Time
	for _, rec := range records {
		monday := utils.MondayOf(rec.WorkDate)
		if !seen[monday] {
			seen[monday] = true
			weeks = append(weeks, monday)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	return weeks
}

func (s *AggregateService) monthSummary(monthRecords []models.WorkRecord, month time.Time) models.MonthlySummary {
	summary := models.MonthlySummary{
		Month:     month.Format("2006-01"),
		MonthName: month.Format("January 2006"),
		StartDate: utils.FormatDate(utils.MonthStart(month)),
		EndDate:   utils.FormatDate(utils.MonthEnd(month)),
	}

	users := make(map[string]bool)
	workdays := make(map[time.Time]bool)
	for _, rec := range monthRecords {
		summary.TotalDone += rec.TotalDone
		summary.TotalReviewed += rec.TotalReviewed
		summary.TotalEdited += rec.TotalEdited
		summary.GoodCount += rec.Good
		summary.BadCount += rec.Bad
		summary.RejectedCount += rec.Rejected
		users[rec.User] = true
		if !utils.IsWeekend(rec.WorkDate) {
			workdays[rec.WorkDate] = true
		}
	}
	summary.UniqueUsers = len(users)
	summary.WorkingDays = len(workdays)
	return summary
}

func (s *AggregateService) weekSummary(weekRecords []models.WorkRecord, monday time.Time, weekID string) models.WeeklySummary {
	summary := models.WeeklySummary{
		WeekID:         weekID,
		WeekPeriod:     utils.ISOWeekString(monday),
		StartDate:      utils.FormatDate(monday),
		EndDate:        utils.FormatDate(monday.AddDate(0, 0, 4)),
		Month:          monday.Format("January 2006"),
		DailyBreakdown: []models.DailyBreakdownItem{},
	}

	type dayAgg struct {
		totalDone int
		users     map[string]bool
	}
	days := make(map[time.Time]*dayAgg)
	var dates []time.Time

	for _, rec := range weekRecords {
		summary.TotalDone += rec.TotalDone
		summary.TotalReviewed += rec.TotalReviewed
		summary.TotalEdited += rec.TotalEdited

		day, ok := days[rec.WorkDate]
		if !ok {
			day = &dayAgg{users: make(map[string]bool)}
			days[rec.WorkDate] = day
			dates = append(dates, rec.WorkDate)
		}
		day.totalDone += rec.TotalDone
		day.users[rec.User] = true
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		summary.DailyBreakdown = append(summary.DailyBreakdown, models.DailyBreakdownItem{
			Date:        utils.FormatDate(date),
			Weekday:     utils.WeekdayName(date),
			TotalDone:   days[date].totalDone,
			UsersActive: len(days[date].users),
		})
	}
	return summary
}

func (s *AggregateService) userPeriodTotals(records []models.WorkRecord) []models.UserPeriodTotals {
	byUser := make(map[string]*models.UserPeriodTotals)
	daysActive := make(map[string]map[time.Time]bool)
	var users []string

	for _, rec := range records {
		row, ok := byUser[rec.User]
		if !ok {
			row = &models.UserPeriodTotals{User: rec.User}
			byUser[rec.User] = row
			daysActive[rec.User] = make(map[time.Time]bool)
			users = append(users, rec.User)
		}
		row.TotalDone += rec.TotalDone
		row.TotalReviewed += rec.TotalReviewed
		row.TotalEdited += rec.TotalEdited
		row.GoodCount += rec.Good
		row.BadCount += rec.Bad
		row.RejectedCount += rec.Rejected
		daysActive[rec.User][rec.WorkDate] = true
	}
	sort.Strings(users)

	out := make([]models.UserPeriodTotals, 0, len(users))
	for _, user := range users {
		row := byUser[user]
		row.DaysActive = len(daysActive[user])
		if row.DaysActive > 0 {
			row.AvgPerDay = row.TotalDone / row.DaysActive
		}
		out = append(out, *row)
	}
	return out
}

func (s *AggregateService) dailySummaries(records []models.WorkRecord) []models.DailySummary {
	var out []models.DailySummary

	i := 0
	for i < len(records) {
		date := records[i].WorkDate
		day := models.DailySummary{
			Date:        utils.FormatDate(date),
			Weekday:     utils.WeekdayName(date),
			UserRecords: []models.UserRecord{},
		}

		for i < len(records) && records[i].WorkDate.Equal(date) {
			rec := records[i]
			day.UserRecords = append(day.UserRecords, models.UserRecord{
				User:       rec.User,
				TotalDone:  rec.TotalDone,
				Good:       rec.Good,
				Bad:        rec.Bad,
				Rejected:   rec.Rejected,
				Downloaded: rec.Downloaded,
				Uploaded:   rec.Uploaded,
			})
			day.DailyTotals.TotalDone += rec.TotalDone
			day.DailyTotals.TotalReviewed += rec.TotalReviewed
			day.DailyTotals.TotalEdited += rec.TotalEdited
			i++
		}

		out = append(out, day)
	}
	return out
}

// verifyTotals asserts the round-trip totals invariant: the grand totals must
// equal the sum over user summaries and the sum over daily totals exactly.
func (s *AggregateService) verifyTotals(records []models.WorkRecord, result *models.AggregationResult) error {
	var wantDone, wantReviewed, wantEdited int
	for _, rec := range records {
		wantDone += rec.TotalDone
		wantReviewed += rec.TotalReviewed
		wantEdited += rec.TotalEdited
	}

	var userDone, userReviewed, userEdited int
	for _, u := range result.UserSummaries {
		userDone += u.TotalDone
		userReviewed += u.TotalReviewed
		userEdited += u.TotalEdited
	}
	if userDone != wantDone || userReviewed != wantReviewed || userEdited != wantEdited {
		return fmt.Errorf("user summary totals (%d/%d/%d) do not match record totals (%d/%d/%d)",
			userDone, userReviewed, userEdited, wantDone, wantReviewed, wantEdited)
	}

	var dayDone, dayReviewed, dayEdited int
	for _, d := range result.DailySummaries {
		dayDone += d.DailyTotals.TotalDone
		dayReviewed += d.DailyTotals.TotalReviewed
		dayEdited += d.DailyTotals.TotalEdited
	}
	if dayDone != wantDone || dayReviewed != wantReviewed || dayEdited != wantEdited {
		return fmt.Errorf("daily totals (%d/%d/%d) do not match record totals (%d/%d/%d)",
			dayDone, dayReviewed, dayEdited, wantDone, wantReviewed, wantEdited)
	}

	return nil
}

func addRecord(row *models.SummaryRow, rec models.WorkRecord) {
	row.TotalDone += rec.TotalDone
	row.Good += rec.Good
	row.GoodOriginal += rec.GoodOriginal
	row.GoodEnhanced += rec.GoodEnhanced
	row.ForEditing += rec.ForEditing
	row.Bad += rec.Bad
	row.Rejected += rec.Rejected
	row.TotalReviewed += rec.TotalReviewed
	row.Downloaded += rec.Downloaded
	row.Uploaded += rec.Uploaded
	row.TotalEdited += rec.TotalEdited
}

func addUserRecord(row *models.UserSummaryRow, rec models.WorkRecord) {
	row.TotalDone += rec.TotalDone
	row.Good += rec.Good
	row.GoodOriginal += rec.GoodOriginal
	row.GoodEnhanced += rec.GoodEnhanced
	row.ForEditing += rec.ForEditing
	row.Bad += rec.Bad
	row.Rejected += rec.Rejected
	row.TotalReviewed += rec.TotalReviewed
	row.Downloaded += rec.Downloaded
	row.Uploaded += rec.Uploaded
	row.TotalEdited += rec.TotalEdited
}
