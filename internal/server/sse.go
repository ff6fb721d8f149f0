package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/skill-matcher/internal/pipeline"
	"github.com/jonathan/skill-matcher/internal/types"
)

// SSE event names emitted by POST /analyze/stream, in order.
const (
	eventProgress = "progress"
	eventReport   = "report"
	eventComplete = "complete"
)

// SSEWriter writes numbered server-sent events and flushes after each one.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

// NewSSEWriter sets the event-stream headers. It fails when w cannot flush.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends one event with a JSON payload.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	s.seq++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.seq, event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteProgress sends one pipeline stage.
func (s *SSEWriter) WriteProgress(ev pipeline.ProgressEvent) error {
	return s.WriteEvent(eventProgress, ev)
}

// WriteReport sends the finished report.
func (s *SSEWriter) WriteReport(report types.AnalysisReport) error {
	return s.WriteEvent(eventReport, report)
}

// WriteComplete sends the final event. The analysis id is omitted when the
// report was not persisted.
func (s *SSEWriter) WriteComplete(analysisID uuid.UUID, level types.MatchLevel) error {
	payload := map[string]string{"match_level": string(level)}
	if analysisID != uuid.Nil {
		payload["analysis_id"] = analysisID.String()
	}
	return s.WriteEvent(eventComplete, payload)
}
