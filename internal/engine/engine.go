// Package engine drives the teacher application wizard: the step sequence,
// the application document, the validation ledger and the submission
// protocol. It has no knowledge of how steps are drawn.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/validation"
)

var (
	// ErrStepInvalid is returned by Next when the current step has field errors.
	ErrStepInvalid = errors.New("current step has validation errors")
	// ErrFirstStep is returned by Previous on the first step.
	ErrFirstStep = errors.New("already on the first step")
	// ErrLastStep is returned by Next on the review step.
	ErrLastStep = errors.New("already on the last step")
	// ErrNotOnReview is returned by Submit away from the review step.
	ErrNotOnReview = errors.New("submit is only available on the review step")
	// ErrSubmitPending is returned by Submit and Previous while a submission is in flight.
	ErrSubmitPending = errors.New("submission already in progress")
	// ErrAlreadySubmitted is returned by Submit and Previous after a successful submission.
	ErrAlreadySubmitted = errors.New("application already submitted")
	// ErrIncomplete is returned by Submit when strict checks find missing fields.
	ErrIncomplete = errors.New(validation.IncompleteMessage)
)

// Options tune engine behaviour.
type Options struct {
	// SubmitTimeout bounds each backend call. Zero uses DefaultSubmitTimeout.
	SubmitTimeout time.Duration
	// StrictSubmit refuses to submit documents that fail the whole-document schema.
	StrictSubmit bool
	// CrossFieldChecks makes Next also run the multi-field checks of the step.
	CrossFieldChecks bool
	// Now is the clock used for age checks. Nil uses time.Now.
	Now func() time.Time
}

// Engine is the wizard container. It is not safe for concurrent use;
// a single owner (the UI loop) drives it.
type Engine struct {
	backend Backend
	opts    Options
	rules   *validation.Rules
	schema  *validation.Schema

	doc        *form.Document
	seq        *Sequence
	ledger     validation.Ledger
	submission *Submission
	// ledger keys written by the multi-field checks
	crossKeys []string
}

// New returns an engine on the first step with an empty document.
func New(backend Backend, opts Options) *Engine {
	if opts.SubmitTimeout == 0 {
		opts.SubmitTimeout = DefaultSubmitTimeout
	}
	e := &Engine{
		backend: backend,
		opts:    opts,
		rules:   validation.NewRules(opts.Now),
		schema:  validation.NewSchema(opts.Now),
	}
	e.Reset()
	return e
}

// Reset discards the document and returns every piece of state to its
// initial value.
func (e *Engine) Reset() {
	e.doc = form.New()
	e.seq = NewSequence()
	e.ledger = validation.Ledger{}
	e.submission = NewSubmission(e.opts.SubmitTimeout)
	e.crossKeys = nil
}

// Document returns the live document. Callers must treat it as read-only
// and edit through the engine.
func (e *Engine) Document() *form.Document { return e.doc }

// Ledger returns the live error ledger. Callers must treat it as read-only.
func (e *Engine) Ledger() validation.Ledger { return e.ledger }

// Sequence returns the step sequence.
func (e *Engine) Sequence() *Sequence { return e.seq }

// Step returns the current step.
func (e *Engine) Step() Step { return e.seq.Current() }

// SubmissionState returns the submission phase.
func (e *Engine) SubmissionState() SubmissionState { return e.submission.State() }

// SubmissionMessage returns the failure message of the last attempt.
func (e *Engine) SubmissionMessage() string { return e.submission.Message() }

// Rules returns the field validators in use.
func (e *Engine) Rules() *validation.Rules { return e.rules }

// Update merges patch into section and re-validates every patched field
// that has a validator, replacing its ledger entry.
func (e *Engine) Update(section form.Section, patch form.Patch) error {
	if err := e.doc.UpdateSection(section, patch); err != nil {
		return err
	}
	for _, path := range patch.Keys() {
		value, err := e.doc.Value(section, path)
		if err != nil {
			continue
		}
		e.check(section, path, value)
	}
	e.refreshCrossField(section)
	return nil
}

// SetField applies one text edit and re-validates the field.
func (e *Engine) SetField(section form.Section, path, value string) error {
	if err := e.doc.SetField(section, path, value); err != nil {
		return err
	}
	e.check(section, path, value)
	e.refreshCrossField(section)
	return nil
}

func (e *Engine) check(section form.Section, path, value string) {
	if msg, ok := e.rules.Check(section, path, value); ok {
		e.ledger.Set(path, msg)
	}
}

// AddQualification appends a qualification draft. See form.Document.AddQualification.
func (e *Engine) AddQualification(draft form.Qualification) (form.Qualification, error) {
	q, err := e.doc.AddQualification(draft)
	if err != nil {
		return q, err
	}
	logger.Debug("Added qualification %s (%s)", q.ID, q.Subject)
	e.refreshCrossField(form.SectionQualifications)
	return q, nil
}

// RemoveQualification removes a qualification by id. Unknown ids are a no-op.
func (e *Engine) RemoveQualification(id string) bool {
	removed := e.doc.RemoveQualification(id)
	if removed {
		e.refreshCrossField(form.SectionQualifications)
	}
	return removed
}

// ToggleTeachingMethod flips membership of method in the availability section.
func (e *Engine) ToggleTeachingMethod(method string) {
	e.doc.ToggleTeachingMethod(method)
}

// refreshCrossField re-runs the multi-field checks once they have reported
// something, so fixed problems disappear without another Next.
func (e *Engine) refreshCrossField(section form.Section) {
	if !e.opts.CrossFieldChecks || len(e.crossKeys) == 0 {
		return
	}
	e.recordCrossField(validation.CrossField(section, e.doc))
}

func (e *Engine) recordCrossField(findings validation.Ledger) {
	for _, k := range e.crossKeys {
		delete(e.ledger, k)
	}
	e.crossKeys = findings.Fields()
	e.ledger.Merge(findings)
}

// CanAdvance reports whether Next would succeed without running the
// optional multi-field checks.
func (e *Engine) CanAdvance() bool {
	if e.seq.IsLast() {
		return false
	}
	return !e.ledger.HasErrors(e.rules.Fields(e.seq.Current().Section)...)
}

// Next marks the current step completed and moves forward. It is refused
// while a validated field of the step has an error.
func (e *Engine) Next() error {
	if e.seq.IsLast() {
		return ErrLastStep
	}
	step := e.seq.Current()
	if e.ledger.HasErrors(e.rules.Fields(step.Section)...) {
		return ErrStepInvalid
	}
	if e.opts.CrossFieldChecks {
		if findings := validation.CrossField(step.Section, e.doc); findings.Any() {
			e.recordCrossField(findings)
			return ErrStepInvalid
		}
	}

	e.seq.markCompleted(e.seq.Index())
	e.seq.advance()
	e.ledger.Clear()
	e.crossKeys = nil
	logger.Debug("Wizard advanced to step %d (%s)", e.seq.Index(), e.seq.Current().ID)
	return nil
}

// Previous moves back one step. Completed flags are kept. The review step
// cannot be left while a submission is in flight or after it succeeded.
func (e *Engine) Previous() error {
	if e.seq.IsFirst() {
		return ErrFirstStep
	}
	switch e.submission.State() {
	case SubmitPending:
		return ErrSubmitPending
	case SubmitSucceeded:
		return ErrAlreadySubmitted
	}
	e.seq.back()
	e.ledger.Clear()
	e.crossKeys = nil
	logger.Debug("Wizard moved back to step %d (%s)", e.seq.Index(), e.seq.Current().ID)
	return nil
}

// Findings returns the whole-document schema findings. They are advisory
// unless StrictSubmit is set.
func (e *Engine) Findings() validation.Ledger {
	return e.schema.Check(e.doc)
}

// BeginSubmit starts a submission and returns the snapshot to hand to
// ExecuteSubmit. With StrictSubmit an incomplete document fails the
// submission immediately and ErrIncomplete is returned.
func (e *Engine) BeginSubmit() (form.Document, error) {
	if !e.seq.IsLast() {
		return form.Document{}, ErrNotOnReview
	}
	if err := e.submission.Begin(); err != nil {
		return form.Document{}, err
	}
	if e.opts.StrictSubmit {
		if findings := e.Findings(); findings.Any() {
			logger.Warn("Submission blocked, incomplete fields: %v", findings.Fields())
			e.submission.Finish(ErrIncomplete)
			return form.Document{}, ErrIncomplete
		}
	}
	logger.Info("Submitting application for %s", e.doc.PersonalInfo.Email)
	return *e.doc.Clone(), nil
}

// ExecuteSubmit performs the backend call for a snapshot from BeginSubmit.
// It reads only settings fixed at construction, so it may run off the
// owner goroutine.
func (e *Engine) ExecuteSubmit(ctx context.Context, snapshot form.Document) error {
	return NewSubmission(e.opts.SubmitTimeout).Execute(ctx, e.backend, snapshot)
}

// FinishSubmit records the outcome of ExecuteSubmit. On success the review
// step is marked completed.
func (e *Engine) FinishSubmit(err error) {
	e.submission.Finish(err)
	if e.submission.State() == SubmitSucceeded {
		e.seq.markCompleted(e.seq.Len() - 1)
		logger.Info("Application submitted")
		return
	}
	if e.submission.State() == SubmitFailed {
		logger.Warn("Application submission failed: %v", err)
	}
}

// Submit runs BeginSubmit, ExecuteSubmit and FinishSubmit in one call.
// The returned error is the backend outcome; the failure message shown to
// the applicant is available from SubmissionMessage.
func (e *Engine) Submit(ctx context.Context) error {
	snapshot, err := e.BeginSubmit()
	if err != nil {
		return err
	}
	err = e.ExecuteSubmit(ctx, snapshot)
	e.FinishSubmit(err)
	return err
}
