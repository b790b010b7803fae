package services

import (
	"sort"
	"time"

	"ie-tracker-report/internal/models"
	"ie-tracker-report/internal/utils"
)

// PeriodService partitions cleaned records into calendar months and
// Monday-Friday weeks. Months are identified by their first day at midnight,
// weeks by their Monday at midnight.
type PeriodService struct{}

// NewPeriodService creates a new period service
func NewPeriodService() *PeriodService {
	return &PeriodService{}
}

// MonthsIn returns the distinct calendar months touched by any record's
// workdate, ascending.
func (s *PeriodService) MonthsIn(records []models.WorkRecord) []time.Time {
	seen := make(map[time.Time]bool)
	var months []time.Time
	for _, rec := range records {
		m := utils.MonthStart(rec.WorkDate)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// WeeksInMonth returns the Mondays of every week whose Monday-Friday span
// overlaps the given month, ascending. A week straddling a month boundary is
// listed under both months.
func (s *PeriodService) WeeksInMonth(records []models.WorkRecord, month time.Time) []time.Time {
	monthStart := utils.MonthStart(month)
	monthEnd := utils.MonthEnd(month)

	seen := make(map[time.Time]bool)
	var weeks []time.Time
	for _, rec := range records {
		monday := utils.MondayOf(rec.WorkDate)
		if seen[monday] {
			continue
		}
		seen[monday] = true

		friday := monday.AddDate(0, 0, 4)
		if !monday.After(monthEnd) && !friday.Before(monthStart) {
			weeks = append(weeks, monday)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	return weeks
}

// FilterByMonth selects records whose workdate falls in the given calendar
// month, weekends included. Monthly totals must always come from this filter,
// never from summing the month's week list, since straddling weeks would
// double count.
func (s *PeriodService) FilterByMonth(records []models.WorkRecord, month time.Time) []models.WorkRecord {
	var out []models.WorkRecord
	for _, rec := range records {
		if utils.SameMonth(rec.WorkDate, month) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByWeek selects records in [Monday, Friday] of the week starting at
// the given Monday. Saturday and Sunday records never pass, even when a data
// error places them inside the date window.
func (s *PeriodService) FilterByWeek(records []models.WorkRecord, monday time.Time) []models.WorkRecord {
	friday := monday.AddDate(0, 0, 4)
	var out []models.WorkRecord
	for _, rec := range records {
		if rec.WorkDate.Before(monday) || rec.WorkDate.After(friday) {
			continue
		}
		if utils.IsWeekend(rec.WorkDate) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
