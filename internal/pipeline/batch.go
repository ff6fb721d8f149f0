package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-matcher/internal/skills"
)

// DefaultBatchConcurrency bounds parallel analyses of one batch.
const DefaultBatchConcurrency = 8

// Candidate is one entry of a batch analysis.
type Candidate struct {
	ID     string
	Resume any
	CV     any
}

// CandidateDetail is the analysis of one batch candidate.
type CandidateDetail struct {
	ID     string
	Detail *Detail
}

// AnalyzeBatch analyzes every candidate against the same job. Results keep
// input order. The only error is the context's, when it ends before all
// candidates were analyzed.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, job any, candidates []Candidate, weights skills.Weights, concurrency int) ([]CandidateDetail, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]CandidateDetail, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, cand := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = CandidateDetail{
				ID:     cand.ID,
				Detail: a.AnalyzeDetailed(Input{Job: job, Resume: cand.Resume, CV: cand.CV}, weights),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
