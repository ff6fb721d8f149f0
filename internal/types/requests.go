package types

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// MaxBatchCandidates bounds a single batch request.
const MaxBatchCandidates = 50

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if t, ok := field.Interface().(Text); ok {
			return t.validatorValue()
		}
		return nil
	}, Text{})
	return v
}

// Text is a free-text request field. It accepts any JSON value so a client
// sending a number or an object gets an empty analysis instead of a decode
// failure; Value returns the decoded value as sent.
type Text struct {
	raw any
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.raw = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.raw)
}

// String returns the text, or "" when the value is not a string.
func (t Text) String() string {
	s, _ := t.raw.(string)
	return s
}

// Value returns the decoded JSON value.
func (t Text) Value() any {
	return t.raw
}

// Present reports whether the field carries a truthy value: a non-empty string,
// a non-zero number, true, or a non-empty array or object.
func (t Text) Present() bool {
	switch v := t.raw.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func (t Text) validatorValue() string {
	if !t.Present() {
		return ""
	}
	if s, ok := t.raw.(string); ok {
		return s
	}
	return fmt.Sprint(t.raw)
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	JobDescription Text `json:"jobDescription" validate:"required"`
	ResumeText     Text `json:"resumeText" validate:"required_without=CVText"`
	CVText         Text `json:"cvText"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// BatchCandidate is one candidate of a batch request.
type BatchCandidate struct {
	ID         string `json:"id" validate:"required,max=128"`
	ResumeText Text   `json:"resumeText" validate:"required_without=CVText"`
	CVText     Text   `json:"cvText"`
}

// BatchRequest is the body of POST /analyze/batch.
type BatchRequest struct {
	JobDescription Text             `json:"jobDescription" validate:"required"`
	Candidates     []BatchCandidate `json:"candidates" validate:"required,min=1,max=50,dive"`
}

// Validate validates the BatchRequest using the validator.
func (r *BatchRequest) Validate() error {
	return validate.Struct(r)
}

// BatchResult pairs a candidate id with its report.
type BatchResult struct {
	ID     string         `json:"id"`
	Report AnalysisReport `json:"report"`
}

// BatchResponse is the body returned by POST /analyze/batch.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

// FeedbackRequest is the body of POST /feedback. Alias feedback requires the
// surface form in Original.
type FeedbackRequest struct {
	Category string `json:"category" validate:"required"`
	Skill    string `json:"skill" validate:"required,max=200"`
	Original string `json:"original,omitempty" validate:"required_if=Category skill_aliases,max=200"`
}

// Validate validates the FeedbackRequest using the validator.
func (r *FeedbackRequest) Validate() error {
	return validate.Struct(r)
}
