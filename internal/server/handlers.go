package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/skill-matcher/internal/db"
	"github.com/jonathan/skill-matcher/internal/ingestion"
	"github.com/jonathan/skill-matcher/internal/observability"
	"github.com/jonathan/skill-matcher/internal/pipeline"
	"github.com/jonathan/skill-matcher/internal/server/middleware"
	"github.com/jonathan/skill-matcher/internal/skills"
	"github.com/jonathan/skill-matcher/internal/types"
)

// decodeObject reads a JSON object body into dst. Anything but a non-empty
// object is rejected with errNotJSON.
func decodeObject(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errNotJSON
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		return errNotJSON
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// preparedText is a request text field after cleaning. Non-string values are
// passed through untouched so the analyzer treats them as malformed.
type preparedText struct {
	value any
	doc   *ingestion.Document
}

func prepareText(t types.Text) preparedText {
	if s, ok := t.Value().(string); ok {
		doc := ingestion.Prepare(s)
		return preparedText{value: doc.Text, doc: doc}
	}
	return preparedText{value: t.Value()}
}

func (p preparedText) chars() int {
	if p.doc == nil {
		return 0
	}
	return p.doc.Meta.Chars
}

func (p preparedText) hash() string {
	if p.doc == nil {
		return ""
	}
	return p.doc.Meta.Hash
}

// handleAnalyze analyzes one job description against a resume and/or CV.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := decodeObject(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgAnalyzeRequired)
		return
	}

	job, resume, cv := prepareText(req.JobDescription), prepareText(req.ResumeText), prepareText(req.CVText)
	detail := s.analyzer.AnalyzeDetailed(pipeline.Input{Job: job.value, Resume: resume.value, CV: cv.value}, s.weights)

	if id, ok := s.persist(r.Context(), detail, job, resume, cv); ok {
		w.Header().Set("X-Analysis-ID", id.String())
	}
	s.jsonResponse(w, http.StatusOK, detail.Report)
}

// handleAnalyzeBatch analyzes one job description against several candidates.
func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req types.BatchRequest
	if err := decodeObject(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}
	if len(req.Candidates) > s.maxBatch {
		s.writeError(w, &ErrValidation{Field: "candidates", Message: fmt.Sprintf("at most %d candidates per request", s.maxBatch)})
		return
	}

	job := prepareText(req.JobDescription)
	candidates := make([]pipeline.Candidate, len(req.Candidates))
	prepared := make([][2]preparedText, len(req.Candidates))
	for i, c := range req.Candidates {
		prepared[i] = [2]preparedText{prepareText(c.ResumeText), prepareText(c.CVText)}
		candidates[i] = pipeline.Candidate{ID: c.ID, Resume: prepared[i][0].value, CV: prepared[i][1].value}
	}

	details, err := s.analyzer.AnalyzeBatch(r.Context(), job.value, candidates, s.weights, pipeline.DefaultBatchConcurrency)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := types.BatchResponse{Results: make([]types.BatchResult, len(details))}
	for i, d := range details {
		s.persist(r.Context(), d.Detail, job, prepared[i][0], prepared[i][1])
		resp.Results[i] = types.BatchResult{ID: d.ID, Report: d.Detail.Report}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAnalyzeStream runs one analysis and streams every stage as a
// server-sent event, ending with the report.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := decodeObject(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgAnalyzeRequired)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.writeError(w, err)
		return
	}

	analyzer := s.analyzer.Observe(func(event pipeline.ProgressEvent) {
		if err := sse.WriteProgress(event); err != nil {
			s.logger.Debug("progress event dropped", zap.Error(err))
		}
	})

	job, resume, cv := prepareText(req.JobDescription), prepareText(req.ResumeText), prepareText(req.CVText)
	detail := analyzer.AnalyzeDetailed(pipeline.Input{Job: job.value, Resume: resume.value, CV: cv.value}, s.weights)

	if err := sse.WriteReport(detail.Report); err != nil {
		s.logger.Debug("report event dropped", zap.Error(err))
		return
	}
	id, _ := s.persist(r.Context(), detail, job, resume, cv)
	if err := sse.WriteComplete(id, detail.Report.MatchLevel); err != nil {
		s.logger.Debug("complete event dropped", zap.Error(err))
	}
}

// handleFeedback applies a dictionary correction to the shared registry.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req types.FeedbackRequest
	if err := decodeObject(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !skills.IsFeedbackTarget(req.Category) {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidCategory)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	changed, err := s.analyzer.Registry().ApplyFeedback(req.Category, req.Skill, req.Original)
	if err != nil {
		s.logger.Info("feedback rejected",
			zap.String("category", observability.Truncate(req.Category, maxLogField)),
			zap.String("skill", observability.Truncate(req.Skill, maxLogField)),
			zap.Error(err),
		)
		s.writeError(w, err)
		return
	}

	subject, _ := middleware.GetSubject(r)
	s.logger.Info("feedback applied",
		zap.String("category", req.Category),
		zap.String("skill", observability.Truncate(req.Skill, maxLogField)),
		zap.String("original", observability.Truncate(req.Original, maxLogField)),
		zap.Bool("changed", changed),
		zap.String("subject", subject),
	)

	if s.store != nil {
		ev := &db.FeedbackEvent{
			Category: req.Category,
			Skill:    req.Skill,
			Original: req.Original,
			Changed:  changed,
			Subject:  subject,
		}
		if err := s.store.RecordFeedback(r.Context(), ev); err != nil {
			s.logger.Warn("recording feedback failed", zap.Error(err))
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message": msgFeedbackApplied,
		"changed": changed,
	})
}

// handleListFeedback returns recent feedback events, newest first.
func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, db.ErrNoStore)
		return
	}

	limit := db.DefaultFeedbackLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	events, err := s.store.ListFeedback(r.Context(), limit)
	if err != nil {
		s.writeError(w, fmt.Errorf("list feedback: %w", err))
		return
	}
	if events == nil {
		events = []db.FeedbackEvent{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"events": events})
}

// handleSkills returns the current dictionary, aliases and groups.
func (s *Server) handleSkills(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.analyzer.Registry().Snapshot().Seed())
}

// handleGetAnalysis returns a persisted analysis record.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "invalid analysis ID format"})
		return
	}
	if s.store == nil {
		s.writeError(w, db.ErrNoStore)
		return
	}

	rec, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.writeError(w, fmt.Errorf("get analysis: %w", err))
		return
	}
	if rec == nil {
		s.writeError(w, &ErrNotFound{Resource: "analysis", ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// persist stores a finished analysis when a store is configured. Storage
// failures are logged and never fail the request.
func (s *Server) persist(ctx context.Context, detail *pipeline.Detail, job, resume, cv preparedText) (uuid.UUID, bool) {
	if s.store == nil {
		return uuid.Nil, false
	}

	rec := &db.AnalysisRecord{
		Report:        detail.Report,
		WeightedScore: detail.Result.Overall,
		JobHash:       job.hash(),
		JobChars:      job.chars(),
		ResumeChars:   resume.chars(),
		CVChars:       cv.chars(),
	}
	if err := s.store.SaveAnalysis(ctx, rec); err != nil {
		s.logger.Warn("saving analysis failed", zap.Error(err))
		return uuid.Nil, false
	}
	return rec.ID, true
}
