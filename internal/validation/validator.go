package validation

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Report collects the outcome of validating an aggregation document.
// Errors make the document unusable; warnings and corrections do not.
type Report struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Corrections []string `json:"corrections_applied"`
}

func (r *Report) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *Report) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Report) addCorrection(format string, args ...interface{}) {
	r.Corrections = append(r.Corrections, fmt.Sprintf(format, args...))
}

var dateFields = []string{"start_date", "end_date", "date"}

// Validate checks the candidate aggregation against the template. Coercible
// numeric values (numeric strings, floats) are fixed IN PLACE and recorded as
// corrections; missing fields and malformed dates are warnings; missing
// sections and uncoercible values are errors.
func Validate(candidate map[string]interface{}, template *Template) *Report {
	report := &Report{IsValid: true}
	if template == nil {
		template = DefaultTemplate()
	}

	// Deterministic section order keeps messages stable across runs.
	sections := make([]string, 0, len(template.Structure))
	for name := range template.Structure {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, name := range sections {
		rule := template.Structure[name]
		sectionData, ok := candidate[name]
		if !ok {
			report.addError("Missing required section: %s", name)
			continue
		}

		if rule.Format == "list_of_objects" {
			list, ok := sectionData.([]interface{})
			if !ok {
				report.addError("%s should be a list", name)
				continue
			}
			for i, raw := range list {
				item, ok := raw.(map[string]interface{})
				if !ok {
					report.addError("%s[%d] should be an object", name, i)
					continue
				}
				for _, field := range rule.RequiredFields {
					if _, ok := item[field]; !ok {
						report.addWarning("Missing field '%s' in %s[%d]", field, name, i)
					}
				}
			}
		}
	}

	coerceNumericFields(candidate, template.ValidationRules.NumericFields, report)
	checkDateFormats(candidate, report)

	return report
}

// coerceNumericFields walks every list section and forces the template's
// numeric fields to integers where possible, mutating the candidate.
func coerceNumericFields(candidate map[string]interface{}, numericFields []string, report *Report) {
	sections := make([]string, 0, len(candidate))
	for name := range candidate {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, name := range sections {
		list, ok := candidate[name].([]interface{})
		if !ok {
			continue
		}
		for i, raw := range list {
			item, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			for _, field := range numericFields {
				val, ok := item[field]
				if !ok {
					continue
				}
				switch v := val.(type) {
				case float64:
					// JSON numbers arrive as float64; whole values pass
					// silently, fractional ones get truncated.
					if v != float64(int(v)) {
						item[field] = int(v)
						report.addCorrection("Converted %s[%d][%s] to integer", name, i, field)
					}
				case int:
					// already fine
				case string:
					f, err := strconv.ParseFloat(v, 64)
					if err != nil {
						report.addError("Invalid numeric value in %s[%d][%s]", name, i, field)
						continue
					}
					item[field] = int(f)
					report.addCorrection("Converted %s[%d][%s] to integer", name, i, field)
				default:
					report.addError("Invalid numeric value in %s[%d][%s]", name, i, field)
				}
			}
		}
	}
}

// checkDateFormats warns on any date field that does not parse as DD/MM/YYYY.
func checkDateFormats(candidate map[string]interface{}, report *Report) {
	sections := make([]string, 0, len(candidate))
	for name := range candidate {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, name := range sections {
		list, ok := candidate[name].([]interface{})
		if !ok {
			continue
		}
		for i, raw := range list {
			item, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			for _, field := range dateFields {
				val, ok := item[field]
				if !ok {
					continue
				}
				str, ok := val.(string)
				if !ok || !isValidDate(str) {
					report.addWarning("Date format issue in %s[%d][%s]: %v", name, i, field, val)
				}
			}
		}
	}
}

func isValidDate(s string) bool {
	_, err := time.Parse("02/01/2006", s)
	return err == nil
}
