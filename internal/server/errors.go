package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/skill-matcher/internal/db"
	"github.com/jonathan/skill-matcher/internal/skills"
)

// Client-facing messages kept identical to the first version of the API.
const (
	msgExpectedJSON    = "Invalid request: Expected JSON data."
	msgAnalyzeRequired = "Both job description and either resume or CV are required."
	msgInvalidCategory = "Invalid skill category."
	msgFeedbackApplied = "Feedback received and skills updated."
)

// errNotJSON is returned when a body is not a non-empty JSON object.
var errNotJSON = errors.New(msgExpectedJSON)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// validationError converts validator output into an ErrValidation naming the
// first failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg := fmt.Sprintf("failed on '%s'", fe.Tag())
	if fe.Param() != "" {
		msg = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
	}
	return &ErrValidation{Field: fe.Field(), Message: msg}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		conflict   *skills.ConflictError
		target     *skills.InvalidTargetError
		feedback   *skills.FeedbackError
		validation *ErrValidation
		verrs      validator.ValidationErrors
		notFound   *ErrNotFound
		tooLarge   *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.Is(err, errNotJSON),
		errors.As(err, &target),
		errors.As(err, &feedback),
		errors.As(err, &validation),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrNoStore),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text sent to clients. Internal failures are not
// described beyond their status.
func publicMessage(err error) string {
	var target *skills.InvalidTargetError
	switch {
	case errors.As(err, &target):
		return msgInvalidCategory
	case HTTPStatus(err) == http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}
