package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"ie-tracker-report/internal/models"
)

const testSchemaPath = "../../schemas/aggregation_schema.json"

func aggregationJSON(t *testing.T) string {
	t.Helper()
	agg := models.AggregationResult{
		MonthlySummaries: []models.MonthlySummary{{
			Month: "2025-07", MonthName: "July 2025",
			StartDate: "01/07/2025", EndDate: "31/07/2025",
			TotalDone: 100, TotalReviewed: 100, TotalEdited: 60,
			GoodCount: 60, BadCount: 30, RejectedCount: 10,
			UniqueUsers: 2, WorkingDays: 5,
		}},
		WeeklySummaries: []models.WeeklySummary{{
			WeekID: "Week1", WeekPeriod: "2025-W30",
			StartDate: "21/07/2025", EndDate: "25/07/2025",
			Month:     "July 2025",
			TotalDone: 100, TotalReviewed: 100, TotalEdited: 60,
			DailyBreakdown: []models.DailyBreakdownItem{{
				Date: "21/07/2025", Weekday: "Monday", TotalDone: 20, UsersActive: 2,
			}},
		}},
		UserSummaries: []models.UserPeriodTotals{{
			User:      "alice@example.com",
			TotalDone: 50, TotalReviewed: 50, TotalEdited: 30,
			GoodCount: 30, BadCount: 15, RejectedCount: 5,
			DaysActive: 5, AvgPerDay: 10,
		}},
		DailySummaries: []models.DailySummary{{
			Date: "21/07/2025", Weekday: "Monday",
			UserRecords: []models.UserRecord{{
				User: "alice@example.com", TotalDone: 10,
				Good: 6, Bad: 3, Rejected: 1, Downloaded: 4, Uploaded: 2,
			}},
			DailyTotals: models.DailyTotals{TotalDone: 20, TotalReviewed: 20, TotalEdited: 12},
		}},
		OverallStatistics: models.OverallStatistics{
			TotalRecords: 10,
			DateRange:    models.DateRange{Start: "21/07/2025", End: "25/07/2025"},
			TotalUsers:   2,
		},
	}

	data, err := json.Marshal(agg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return string(data)
}

func TestValidateAndParseAggregation(t *testing.T) {
	agg, err := ValidateAndParseAggregation(aggregationJSON(t), testSchemaPath)
	if err != nil {
		t.Fatalf("ValidateAndParseAggregation failed: %v", err)
	}
	if len(agg.MonthlySummaries) != 1 || agg.MonthlySummaries[0].Month != "2025-07" {
		t.Errorf("Monthly summaries = %+v", agg.MonthlySummaries)
	}
	if agg.OverallStatistics.TotalRecords != 10 {
		t.Errorf("Total records = %d", agg.OverallStatistics.TotalRecords)
	}
}

func TestValidateAndParseAggregationMissingSection(t *testing.T) {
	doc := aggregationJSON(t)
	doc = strings.Replace(doc, `"daily_summaries"`, `"daily_rollups"`, 1)

	if _, err := ValidateAndParseAggregation(doc, testSchemaPath); err == nil {
		t.Error("Expected schema rejection for missing section")
	}
}

func TestValidateAndParseAggregationBadJSON(t *testing.T) {
	if _, err := ValidateAndParseAggregation("{not json", testSchemaPath); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}
