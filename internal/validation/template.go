package validation

// SectionRule describes one aggregation section: the fields every object in
// the section must carry.
type SectionRule struct {
	RequiredFields []string `json:"required_fields"`
	Format         string   `json:"format"`
}

// Rules holds cross-section validation settings.
type Rules struct {
	DateFormat     string   `json:"date_format"`
	NumericFields  []string `json:"numeric_fields"`
	RequiredTotals []string `json:"required_totals"`
}

// Template is the contract an externally-produced aggregation must satisfy.
// Section order is not significant; section names match the aggregation's
// JSON keys.
type Template struct {
	Structure       map[string]SectionRule `json:"structure"`
	ValidationRules Rules                  `json:"validation_rules"`
}

// DefaultTemplate returns the built-in aggregation template.
func DefaultTemplate() *Template {
	return &Template{
		Structure: map[string]SectionRule{
			"monthly_summaries": {
				RequiredFields: []string{
					"month", "month_name", "start_date", "end_date",
					"total_done", "total_reviewed", "total_edited",
					"good_count", "bad_count", "rejected_count",
					"unique_users", "working_days",
				},
				Format: "list_of_objects",
			},
			"weekly_summaries": {
				RequiredFields: []string{
					"week_id", "week_period", "start_date", "end_date",
					"month", "total_done", "total_reviewed", "total_edited",
					"daily_breakdown",
				},
				Format: "list_of_objects",
			},
			"user_summaries": {
				RequiredFields: []string{
					"user", "total_done", "total_reviewed", "total_edited",
					"good_count", "bad_count", "rejected_count",
					"days_active", "avg_per_day",
				},
				Format: "list_of_objects",
			},
			"daily_summaries": {
				RequiredFields: []string{
					"date", "weekday", "user_records", "daily_totals",
				},
				Format: "list_of_objects",
			},
		},
		ValidationRules: Rules{
			DateFormat: "DD/MM/YYYY",
			NumericFields: []string{
				"total_done", "total_reviewed", "total_edited",
				"good_count", "bad_count", "rejected_count",
			},
			RequiredTotals: []string{
				"monthly_totals_match",
				"weekly_totals_match",
				"user_totals_match",
			},
		},
	}
}

// ExpectedOutput returns a skeleton aggregation document shaped by the
// template, used to show the AI the exact structure expected back.
func (t *Template) ExpectedOutput() map[string]interface{} {
	out := make(map[string]interface{}, len(t.Structure))
	for section, rule := range t.Structure {
		obj := make(map[string]interface{}, len(rule.RequiredFields))
		for _, f := range rule.RequiredFields {
			obj[f] = placeholderFor(f)
		}
		out[section] = []interface{}{obj}
	}
	out["overall_statistics"] = map[string]interface{}{
		"total_records": 0,
		"date_range":    map[string]interface{}{"start": "DD/MM/YYYY", "end": "DD/MM/YYYY"},
		"total_users":   0,
	}
	return out
}

func placeholderFor(field string) interface{} {
	switch field {
	case "start_date", "end_date", "date":
		return "DD/MM/YYYY"
	case "month", "month_name", "week_id", "week_period", "weekday", "user":
		return ""
	case "daily_breakdown", "user_records":
		return []interface{}{}
	case "daily_totals":
		return map[string]interface{}{"total_done": 0, "total_reviewed": 0, "total_edited": 0}
	case "avg_per_day":
		return 0.0
	default:
		return 0
	}
}
