// Package ranking scores a candidate's extracted skills against a job's and
// resolves alternative skill groups.
package ranking

import (
	"math"
	"slices"

	"github.com/jonathan/skill-matcher/internal/skills"
	"github.com/jonathan/skill-matcher/internal/types"
)

// CategoryResult is the outcome for one skill category.
type CategoryResult struct {
	Score   float64  `json:"score"`
	Missing []string `json:"missing"`
}

// MatchResult is the weighted comparison of a job and a candidate.
type MatchResult struct {
	Categories [skills.CategoryCount]CategoryResult `json:"-"`
	Overall    float64                              `json:"overall"`
	Level      types.MatchLevel                     `json:"level"`
}

// Category returns the result for c.
func (m MatchResult) Category(c skills.Category) CategoryResult {
	if !c.Valid() {
		return CategoryResult{}
	}
	return m.Categories[c]
}

// Score compares job and candidate skills per category and combines the
// category scores with weights. A category the job does not mention scores 100
// and still carries its full weight. When the weights sum to zero every score
// is 0 and nothing is reported missing.
func Score(job, candidate skills.ExtractedSkills, weights skills.Weights) MatchResult {
	var result MatchResult

	totalWeight := 0.0
	for _, c := range skills.Categories() {
		totalWeight += weights[c]
	}
	if totalWeight <= 0 {
		for _, c := range skills.Categories() {
			result.Categories[c] = CategoryResult{Score: 0, Missing: []string{}}
		}
		result.Level = LevelFor(0)
		return result
	}

	weighted := 0.0
	for _, c := range skills.Categories() {
		cr := scoreCategory(job.Get(c), candidate.Get(c))
		result.Categories[c] = cr
		weighted += cr.Score * weights[c]
	}

	result.Overall = weighted / totalWeight
	result.Level = LevelFor(result.Overall)
	return result
}

func scoreCategory(required, have []string) CategoryResult {
	if len(required) == 0 {
		return CategoryResult{Score: 100, Missing: []string{}}
	}

	missing := make([]string, 0)
	matched := 0
	for _, skill := range required {
		if slices.Contains(have, skill) {
			matched++
		} else {
			missing = append(missing, skill)
		}
	}

	return CategoryResult{
		Score:   100 * float64(matched) / float64(len(required)),
		Missing: missing,
	}
}

// Level thresholds, inclusive lower bounds.
const (
	perfectThreshold = 90.0
	goodThreshold    = 70.0
	fairThreshold    = 50.0
)

// LevelFor classifies a percentage. NaN and infinities are Poor.
func LevelFor(percentage float64) types.MatchLevel {
	if math.IsNaN(percentage) || math.IsInf(percentage, 0) {
		return types.MatchPoor
	}
	switch {
	case percentage >= perfectThreshold:
		return types.MatchPerfect
	case percentage >= goodThreshold:
		return types.MatchGood
	case percentage >= fairThreshold:
		return types.MatchFair
	default:
		return types.MatchPoor
	}
}
