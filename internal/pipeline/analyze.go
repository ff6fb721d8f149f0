// Package pipeline orchestrates a full analysis: extraction of job, resume and
// CV skills, category scoring, alternative-group resolution and the report.
package pipeline

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jonathan/skill-matcher/internal/parsing"
	"github.com/jonathan/skill-matcher/internal/ranking"
	"github.com/jonathan/skill-matcher/internal/skills"
	"github.com/jonathan/skill-matcher/internal/types"
)

// Analysis stages reported through ProgressCallback.
const (
	StepExtractJob       = "extract_job"
	StepExtractCandidate = "extract_candidate"
	StepScore            = "score"
	StepResolveGroups    = "resolve_groups"
	StepReport           = "report"
)

// ProgressEvent represents a progress update during an analysis
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called after each analysis stage
type ProgressCallback func(event ProgressEvent)

// Input is one (job, resume, CV) triple. Values are normally strings; any
// other decoded JSON value is treated as malformed and contributes no skills.
type Input struct {
	Job    any
	Resume any
	CV     any
}

// Detail is a report together with the intermediate results it was built from.
type Detail struct {
	Report    types.AnalysisReport
	Result    ranking.MatchResult
	Job       skills.ExtractedSkills
	Candidate skills.ExtractedSkills
}

// Analyzer runs analyses against a shared skill registry.
type Analyzer struct {
	registry   *skills.Registry
	extractor  *skills.Extractor
	logger     *zap.Logger
	onProgress ProgressCallback
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the analyzer's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithProgress registers a callback invoked after every stage.
func WithProgress(cb ProgressCallback) Option {
	return func(a *Analyzer) {
		a.onProgress = cb
	}
}

// NewAnalyzer creates an Analyzer over registry.
func NewAnalyzer(registry *skills.Registry, opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.extractor = skills.NewExtractor(registry, parsing.NewNormalizer(parsing.WithLogger(a.logger)))
	return a
}

// Registry returns the registry the analyzer reads from.
func (a *Analyzer) Registry() *skills.Registry {
	return a.registry
}

// Extractor returns the analyzer's extractor.
func (a *Analyzer) Extractor() *skills.Extractor {
	return a.extractor
}

// Observe returns a copy of the analyzer that reports progress to cb. The
// copy shares the registry and extractor.
func (a *Analyzer) Observe(cb ProgressCallback) *Analyzer {
	c := *a
	c.onProgress = cb
	return &c
}

// Analyze compares job text against resume and CV text and returns the report.
func (a *Analyzer) Analyze(job, resume, cv string, weights skills.Weights) types.AnalysisReport {
	return a.AnalyzeDetailed(Input{Job: job, Resume: resume, CV: cv}, weights).Report
}

// AnalyzeDetailed runs the full analysis. It never panics: an internal failure
// yields a report with level Error and the failure message.
func (a *Analyzer) AnalyzeDetailed(in Input, weights skills.Weights) (detail *Detail) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("analysis failed: %v", r)
			a.logger.Error("analysis failed", zap.Any("panic", r), zap.Stack("stack"))
			detail = &Detail{Report: types.ErrorReport(msg)}
		}
	}()

	if err := weights.Validate(); err != nil {
		a.logger.Error("analysis rejected", zap.Error(err))
		return &Detail{Report: types.ErrorReport(fmt.Sprintf("analysis failed: %v", err))}
	}

	snap := a.registry.Snapshot()

	jobSkills := a.extractor.ExtractValue(snap, in.Job)
	a.progress(StepExtractJob, fmt.Sprintf("%d job skills", jobSkills.Total()), jobSkills)

	resumeSkills := a.extractor.ExtractValue(snap, in.Resume)
	cvSkills := a.extractor.ExtractValue(snap, in.CV)
	candidate := resumeSkills.Merge(cvSkills)
	a.progress(StepExtractCandidate, fmt.Sprintf("%d candidate skills", candidate.Total()), candidate)

	result := ranking.Score(jobSkills, candidate, weights)
	a.progress(StepScore, fmt.Sprintf("weighted score %.1f", result.Overall), result)

	report := a.buildReport(jobSkills, candidate, snap.Groups())
	a.progress(StepReport, fmt.Sprintf("%d%% %s", report.MatchPercentage, report.MatchLevel), report)

	a.logger.Debug("analysis complete",
		zap.Float64("weighted_score", result.Overall),
		zap.String("weighted_level", string(result.Level)),
		zap.Int("match_percentage", report.MatchPercentage),
		zap.String("match_level", string(report.MatchLevel)),
		zap.Int("job_skills", jobSkills.Total()),
		zap.Int("candidate_skills", candidate.Total()),
	)

	return &Detail{
		Report:    report,
		Result:    result,
		Job:       jobSkills,
		Candidate: candidate,
	}
}

// buildReport compares job and candidate per category, folds in alternative
// group matches and computes the literal (unweighted) match percentage.
func (a *Analyzer) buildReport(job, candidate skills.ExtractedSkills, groups [][]string) types.AnalysisReport {
	matched := make(map[string]struct{})
	missing := make(map[string]struct{})
	totalJob, totalMatched := 0, 0

	for _, c := range skills.Categories() {
		have := make(map[string]struct{}, len(candidate.Get(c)))
		for _, skill := range candidate.Get(c) {
			have[skill] = struct{}{}
		}
		required := make(map[string]struct{}, len(job.Get(c)))
		for _, skill := range job.Get(c) {
			required[skill] = struct{}{}
		}

		for skill := range required {
			totalJob++
			if _, ok := have[skill]; ok {
				matched[skill] = struct{}{}
				totalMatched++
			} else {
				missing[skill] = struct{}{}
			}
		}
	}

	res := ranking.ResolveGroups(job.Flatten(), candidate.Flatten(), groups)
	for _, skill := range res.Matched {
		matched[skill] = struct{}{}
	}
	for _, skill := range res.Missing {
		missing[skill] = struct{}{}
	}
	satisfied := ranking.SatisfiedBy(groups, res.Matched)
	for _, group := range satisfied {
		for _, member := range group {
			delete(missing, member)
		}
	}
	a.progress(StepResolveGroups, fmt.Sprintf("%d groups satisfied", len(satisfied)), res)

	percentage := 0.0
	if totalJob > 0 {
		percentage = 100 * float64(totalMatched) / float64(totalJob)
	}

	return types.AnalysisReport{
		MatchedKeywords: ranking.SortedKeys(matched),
		MatchPercentage: int(math.RoundToEven(percentage)),
		MatchLevel:      ranking.LevelFor(percentage),
		MissingKeywords: ranking.SortedKeys(missing),
	}
}

func (a *Analyzer) progress(step, message string, content any) {
	if a.onProgress != nil {
		a.onProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}
