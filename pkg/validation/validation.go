package validation

import "fmt"

// Level indicates which validation stage produced the result.
type Level string

const (
	LevelSchema     Level = "schema"
	LevelAnalytical Level = "analytical"
	LevelRules      Level = "rules"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError          Severity = "error"
	SeverityWarning        Severity = "warning"
	SeverityRecommendation Severity = "recommendation"
	SeverityInfo           Severity = "info"
)

// Category groups advisories by the design concern they address.
type Category string

const (
	CategoryVelocity    Category = "velocity"
	CategoryFit         Category = "fit"
	CategoryTuningRatio Category = "tuning_ratio"
	CategoryPortCount   Category = "port_count"
	CategoryPortArea    Category = "port_area"
	CategoryAlignment   Category = "alignment"
	CategoryLoad        Category = "load"
	CategoryEligibility Category = "eligibility"
)

// Result is a single validation finding.
type Result struct {
	Level        Level    `json:"level"`
	Severity     Severity `json:"severity"`
	Category     Category `json:"category,omitempty"`
	Message      string   `json:"message"`
	SpecPath     string   `json:"spec_path"`
	ActualValue  any      `json:"actual_value,omitempty"`
	Expected     string   `json:"expected,omitempty"`
	ConflictWith string   `json:"conflict_with,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// Report is the complete validation output.
type Report struct {
	Valid           bool     `json:"valid"`
	Errors          []Result `json:"errors"`
	Warnings        []Result `json:"warnings"`
	Recommendations []Result `json:"recommendations"`
	Info            []Result `json:"info"`
	Summary         string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:           true,
		Errors:          []Result{},
		Warnings:        []Result{},
		Recommendations: []Result{},
		Info:            []Result{},
	}
	r.updateSummary()
	return r
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddRecommendation adds a recommendation. Recommendations never invalidate a report.
func (r *Report) AddRecommendation(result Result) {
	result.Severity = SeverityRecommendation
	r.Recommendations = append(r.Recommendations, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Recommendations = append(r.Recommendations, other.Recommendations...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// HasCategory reports whether any warning or recommendation carries the category.
func (r *Report) HasCategory(c Category) bool {
	for _, w := range r.Warnings {
		if w.Category == c {
			return true
		}
	}
	for _, rec := range r.Recommendations {
		if rec.Category == c {
			return true
		}
	}
	return false
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d recommendations, %d info",
		len(r.Errors), len(r.Warnings), len(r.Recommendations), len(r.Info))
}
