package llmstxt

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies the hard failures that end a job.
type FailureKind string

// Failure kinds recorded as terminal job errors.
const (
	FailureGeneration    FailureKind = "generation"
	FailureTimeout       FailureKind = "timeout"
	FailureEmptyResponse FailureKind = "empty_response"
	FailureTooShort      FailureKind = "too_short"
	FailureInternal      FailureKind = "internal"
)

// Failure is the error type returned by pipeline phases that abort a job.
type Failure struct {
	Kind FailureKind
	Err  error
}

// NewFailure wraps err with a failure kind.
func NewFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Message renders the user-visible message stored on a failed job.
func (f *Failure) Message() string {
	detail := "unknown error"
	if f.Err != nil {
		detail = f.Err.Error()
	}
	switch f.Kind {
	case FailureGeneration:
		return "Failed to generate llms.txt: " + detail
	case FailureTimeout:
		return "Failed to generate llms.txt: language model request timed out"
	case FailureEmptyResponse:
		return "Failed to generate llms.txt: language model returned empty response"
	case FailureTooShort:
		return "Generated content is too short"
	case FailureInternal:
		return "Internal error: " + detail
	default:
		return detail
	}
}

// AsFailure converts any error into a *Failure, defaulting to FailureInternal.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return NewFailure(FailureInternal, err)
}

// Outcome is the result of one pipeline run: a document or an error.
type Outcome struct {
	Document string
	Err      error
}

// Status converts the outcome into the terminal JobStatus recorded for the job.
func (o Outcome) Status(now time.Time) JobStatus {
	if o.Err != nil {
		return JobStatus{
			Status:    StatusError,
			Step:      StepError,
			Progress:  0,
			Message:   AsFailure(o.Err).Message(),
			Timestamp: now,
		}
	}
	return JobStatus{
		Status:    StatusCompleted,
		Step:      StepDone,
		Progress:  ProgressDone,
		Message:   "Generation completed successfully",
		Timestamp: now,
		Content:   o.Document,
	}
}
