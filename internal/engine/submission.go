package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/logger"
)

const (
	// GenericFailureMessage is shown when a submission fails without a usable reason.
	GenericFailureMessage = "Failed to submit application. Please try again."
	// TimeoutMessage is shown when the backend does not answer in time.
	TimeoutMessage = "Submission timed out. Please try again."

	// DefaultSubmitTimeout bounds a single backend call.
	DefaultSubmitTimeout = 30 * time.Second
)

var (
	// ErrSubmitTimeout is returned by Execute when the backend does not answer in time.
	ErrSubmitTimeout = errors.New("submission timed out")
	// ErrBackendPanic is returned by Execute when the backend panics.
	ErrBackendPanic = errors.New("backend panicked")
)

// Backend receives finished applications.
type Backend interface {
	SubmitApplication(ctx context.Context, doc form.Document) error
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, doc form.Document) error

// SubmitApplication calls f.
func (f BackendFunc) SubmitApplication(ctx context.Context, doc form.Document) error {
	return f(ctx, doc)
}

// SubmissionState is the phase of the submission protocol.
type SubmissionState int

const (
	SubmitIdle SubmissionState = iota
	SubmitPending
	SubmitSucceeded
	SubmitFailed
)

// String returns the state name.
func (s SubmissionState) String() string {
	switch s {
	case SubmitIdle:
		return "idle"
	case SubmitPending:
		return "pending"
	case SubmitSucceeded:
		return "succeeded"
	case SubmitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submission tracks one application's submit attempts.
//
//	idle -> pending -> succeeded
//	           |  ^
//	           v  |
//	         failed
//
// Begin and Finish must run on the owner's goroutine. Execute only reads
// the timeout and may run anywhere.
type Submission struct {
	state   SubmissionState
	message string
	timeout time.Duration
}

// NewSubmission returns an idle submission whose backend calls are bounded
// by timeout. A non-positive timeout disables the bound.
func NewSubmission(timeout time.Duration) *Submission {
	return &Submission{timeout: timeout}
}

// State returns the current state.
func (s *Submission) State() SubmissionState { return s.state }

// Message returns the failure message, or "" outside the failed state.
func (s *Submission) Message() string { return s.message }

// Begin moves to pending. It is refused while already pending and after success.
func (s *Submission) Begin() error {
	switch s.state {
	case SubmitPending:
		return ErrSubmitPending
	case SubmitSucceeded:
		return ErrAlreadySubmitted
	}
	s.state = SubmitPending
	s.message = ""
	return nil
}

// Execute hands doc to backend and waits for its answer, the timeout, or
// ctx cancellation, whichever comes first. A panicking backend is reported
// as ErrBackendPanic.
func (s *Submission) Execute(ctx context.Context, backend Backend, doc form.Document) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Submission backend panicked: %v", r)
				done <- ErrBackendPanic
			}
		}()
		done <- backend.SubmitApplication(ctx, doc)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrSubmitTimeout
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrSubmitTimeout
		}
		return fmt.Errorf("submission cancelled: %w", ctx.Err())
	}
}

// Finish records the outcome of Execute. It is ignored unless pending.
func (s *Submission) Finish(err error) {
	if s.state != SubmitPending {
		return
	}
	if err == nil {
		s.state = SubmitSucceeded
		s.message = ""
		return
	}
	s.state = SubmitFailed
	s.message = FailureMessage(err)
}

// Reset returns to idle.
func (s *Submission) Reset() {
	s.state = SubmitIdle
	s.message = ""
}

// FailureMessage converts a submission error into the text shown to the
// applicant. Backend rejections are passed through unchanged.
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSubmitTimeout):
		return TimeoutMessage
	case errors.Is(err, ErrBackendPanic), errors.Is(err, context.Canceled):
		return GenericFailureMessage
	case errors.Is(err, ErrIncomplete):
		return ErrIncomplete.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericFailureMessage
}
