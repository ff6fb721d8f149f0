// Package types provides the request and report shapes shared by the matcher's packages.
package types

import "encoding/json"

// MatchLevel is the discrete classification of a match percentage.
type MatchLevel string

// Match levels
const (
	MatchPerfect MatchLevel = "Perfect"
	MatchGood    MatchLevel = "Good"
	MatchFair    MatchLevel = "Fair"
	MatchPoor    MatchLevel = "Poor"
	MatchError   MatchLevel = "Error"
)

// AnalysisReport is the externally visible result of one analysis.
type AnalysisReport struct {
	MatchedKeywords []string   `json:"matchedKeywords"`
	MatchPercentage int        `json:"matchPercentage"`
	MatchLevel      MatchLevel `json:"matchLevel"`
	MissingKeywords []string   `json:"missingKeywords"`
	Error           string     `json:"error,omitempty"`
}

// ErrorReport builds the report returned when an analysis fails internally.
func ErrorReport(message string) AnalysisReport {
	return AnalysisReport{
		MatchedKeywords: []string{},
		MatchPercentage: 0,
		MatchLevel:      MatchError,
		MissingKeywords: []string{},
		Error:           message,
	}
}

// MarshalJSON encodes nil keyword lists as empty arrays.
func (r AnalysisReport) MarshalJSON() ([]byte, error) {
	type plain AnalysisReport
	out := plain(r)
	if out.MatchedKeywords == nil {
		out.MatchedKeywords = []string{}
	}
	if out.MissingKeywords == nil {
		out.MissingKeywords = []string{}
	}
	return json.Marshal(out)
}
