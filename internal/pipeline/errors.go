package pipeline

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StepKind identifies which pipeline step an error belongs to.
type StepKind string

const (
	StepExtract   StepKind = "extract"
	StepSummarize StepKind = "summarize"
	StepWrite     StepKind = "write"
)

// StepError is the terminal error for one job: the step that failed plus the
// underlying cause. Exactly one StepError ends a failed job.
type StepError struct {
	Step StepKind
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StepOf returns the failing step kind for an error produced by the
// orchestrator, or "" if the error did not come from a pipeline step.
func StepOf(err error) StepKind {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

// Summarizer input policy sentinels. Both are non-retryable: retrying the
// same input cannot change the outcome.
var (
	ErrEmptyInput    = errors.New("extracted text is empty")
	ErrInputTooLarge = errors.New("extracted text exceeds the summarizer input limit")
	ErrEmptySummary  = errors.New("model returned an empty summary")
	ErrModelRefusal  = errors.New("model response indicates refusal")
)

// isTransient reports whether a remote call failure is worth retrying.
// Anything else (bad input, missing object, refusal) is terminal on the
// first occurrence.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrEmptySummary) || errors.Is(err, ErrModelRefusal) {
		return false
	}
	// A step timeout is a transient fault; a cancelled parent context is not.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429 || gerr.Code >= 500
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.OK && s.Code() != codes.Unknown {
		switch s.Code() {
		case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
			return true
		}
		return false
	}
	return false
}
