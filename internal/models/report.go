package models

// AggregationResult is the complete aggregation handed to the layout engine.
// The same shape is produced internally by the aggregate service and expected
// back from the AI analysis endpoint, which is why the JSON keys match the
// prompt template exactly.
type AggregationResult struct {
	MonthlySummaries  []MonthlySummary   `json:"monthly_summaries"`
	WeeklySummaries   []WeeklySummary    `json:"weekly_summaries"`
	UserSummaries     []UserPeriodTotals `json:"user_summaries"`
	DailySummaries    []DailySummary     `json:"daily_summaries"`
	OverallStatistics OverallStatistics  `json:"overall_statistics"`
}

// MonthlySummary represents one calendar month's totals.
type MonthlySummary struct {
	Month         string `json:"month"`      // e.g. "2025-07"
	MonthName     string `json:"month_name"` // e.g. "July 2025"
	StartDate     string `json:"start_date"` // DD/MM/YYYY
	EndDate       string `json:"end_date"`   // DD/MM/YYYY
	TotalDone     int    `json:"total_done"`
	TotalReviewed int    `json:"total_reviewed"`
	TotalEdited   int    `json:"total_edited"`
	GoodCount     int    `json:"good_count"`
	BadCount      int    `json:"bad_count"`
	RejectedCount int    `json:"rejected_count"`
	UniqueUsers   int    `json:"unique_users"`
	WorkingDays   int    `json:"working_days"`
}

// WeeklySummary represents one Monday-Friday week's totals with its daily breakdown.
type WeeklySummary struct {
	WeekID         string               `json:"week_id"`     // "Week1", "Week2", ...
	WeekPeriod     string               `json:"week_period"` // ISO week, e.g. "2025-W30"
	StartDate      string               `json:"start_date"`  // Monday, DD/MM/YYYY
	EndDate        string               `json:"end_date"`    // Friday, DD/MM/YYYY
	Month          string               `json:"month"`       // owning month name
	TotalDone      int                  `json:"total_done"`
	TotalReviewed  int                  `json:"total_reviewed"`
	TotalEdited    int                  `json:"total_edited"`
	DailyBreakdown []DailyBreakdownItem `json:"daily_breakdown"`
}

// DailyBreakdownItem is one weekday entry inside a weekly summary.
type DailyBreakdownItem struct {
	Date        string `json:"date"` // DD/MM/YYYY
	Weekday     string `json:"weekday"`
	TotalDone   int    `json:"total_done"`
	UsersActive int    `json:"users_active"`
}

// UserPeriodTotals represents one user's column-wise sums over a record set.
type UserPeriodTotals struct {
	User          string `json:"user"`
	TotalDone     int    `json:"total_done"`
	TotalReviewed int    `json:"total_reviewed"`
	TotalEdited   int    `json:"total_edited"`
	GoodCount     int    `json:"good_count"`
	BadCount      int    `json:"bad_count"`
	RejectedCount int    `json:"rejected_count"`
	DaysActive    int    `json:"days_active"`
	AvgPerDay     int    `json:"avg_per_day"`
}

// DailySummary represents one calendar date's user records plus day totals.
type DailySummary struct {
	Date        string       `json:"date"` // DD/MM/YYYY
	Weekday     string       `json:"weekday"`
	UserRecords []UserRecord `json:"user_records"`
	DailyTotals DailyTotals  `json:"daily_totals"`
}

// UserRecord is one user's raw counters for one date inside a daily summary.
type UserRecord struct {
	User       string `json:"user"`
	TotalDone  int    `json:"total_done"`
	Good       int    `json:"good"`
	Bad        int    `json:"bad"`
	Rejected   int    `json:"rejected"`
	Downloaded int    `json:"downloaded"`
	Uploaded   int    `json:"uploaded"`
}

// DailyTotals holds the column-wise sums for one date.
type DailyTotals struct {
	TotalDone     int `json:"total_done"`
	TotalReviewed int `json:"total_reviewed"`
	TotalEdited   int `json:"total_edited"`
}

// OverallStatistics describes the whole input set.
type OverallStatistics struct {
	TotalRecords int       `json:"total_records"`
	DateRange    DateRange `json:"date_range"`
	TotalUsers   int       `json:"total_users"`
}

// DateRange is an inclusive DD/MM/YYYY span.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SummaryRow is one row of a daily summary table as laid out on a sheet:
// either a per-user detail row, a synthetic "TOTAL <WEEKDAY>" row, or the
// trailing "WEEKLY TOTAL"/"MONTHLY TOTAL" row. The layout engine
// pattern-matches Label to decide merging and bolding, so the exact label
// text is part of the contract.
type SummaryRow struct {
	Label   string `json:"workDate"` // date string or total label
	Weekday string `json:"weekday"`  // empty on total rows
	User    string `json:"user"`     // empty on total rows

	TotalDone     int `json:"totalDone"`
	Good          int `json:"good"`
	GoodOriginal  int `json:"goodOriginal"`
	GoodEnhanced  int `json:"goodEnhanced"`
	ForEditing    int `json:"forEditing"`
	Bad           int `json:"bad"`
	Rejected      int `json:"rejected"`
	TotalReviewed int `json:"totalReviewed"`
	Downloaded    int `json:"downloaded"`
	Uploaded      int `json:"uploaded"`
	TotalEdited   int `json:"totalEdited"`
}

// UserSummaryRow is one row of the "Summary Of All Users" table: a per-user
// row or the trailing "<PERIOD> TOTAL" row.
type UserSummaryRow struct {
	User string `json:"user"`

	TotalDone     int `json:"totalDone"`
	Good          int `json:"good"`
	GoodOriginal  int `json:"goodOriginal"`
	GoodEnhanced  int `json:"goodEnhanced"`
	ForEditing    int `json:"forEditing"`
	Bad           int `json:"bad"`
	Rejected      int `json:"rejected"`
	TotalReviewed int `json:"totalReviewed"`
	Downloaded    int `json:"downloaded"`
	Uploaded      int `json:"uploaded"`
	TotalEdited   int `json:"totalEdited"`
}

// DataSummary is the JSON-serializable rollup sent to the AI service as
// analysis context: date range, per-period summaries and a small sample of
// raw rows.
type DataSummary struct {
	DateRange       DateRange          `json:"date_range"`
	TotalRecords    int                `json:"total_records"`
	UniqueUsers     int                `json:"unique_users"`
	Months          []string           `json:"months"`
	MonthSummaries  []MonthlySummary   `json:"month_summaries"`
	WeeklySummaries []WeeklySummary    `json:"weekly_summaries"`
	UserSummaries   []UserPeriodTotals `json:"user_summaries"`
	SampleData      []WorkRecord       `json:"sample_data"`
	Columns         []string           `json:"columns"`
	DroppedBadDates int                `json:"dropped_bad_dates"`
}
