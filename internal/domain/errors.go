package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrStaleUpdate        = errors.New("stale update")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrRateLimited        = errors.New("rate limited")
	ErrTransient          = errors.New("transient upstream failure")
	ErrNoCandidates       = errors.New("vision returned no candidates")
	ErrMissingReference   = errors.New("no reference image path or url on record")
	ErrAmbiguousReference = errors.New("record carries both a reference path and url")
	ErrNoImage            = errors.New("generator returned no image payload")
	ErrNoVariants         = errors.New("no variants were generated")
)

// FatalError marks a failure that aborts the whole job. It is recorded as
// failed and never retried within the same execution.
type FatalError struct {
	Stage string
	Err   error
}

func (e *FatalError) Error() string {
	if e.Stage == "" {
		return e.Err.Error()
	}
	return e.Stage + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err as a job-level fatal failure at the named stage.
func Fatal(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Stage: stage, Err: err}
}

// IsFatal reports whether err aborts the job.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// IsRetryable reports whether an upstream call may be attempted again:
// throttling and resource exhaustion signals only.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
