package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/validation"
)

// StepError reports a step that refused to advance during Replay.
type StepError struct {
	Step   Step
	Errors validation.Ledger
}

func (e *StepError) Error() string {
	fields := e.Errors.Fields()
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e.Errors.Error(f))
	}
	return fmt.Sprintf("%s: %s", e.Step.Title, strings.Join(msgs, "; "))
}

// Unwrap makes errors.Is(err, ErrStepInvalid) match.
func (e *StepError) Unwrap() error { return ErrStepInvalid }

// Replay feeds doc through the wizard from the current step up to the
// review step. Each section gets the same edits the steps would make and
// is then advanced with Next, so field validation gates the replay the
// way it gates the applicant.
func (e *Engine) Replay(doc *form.Document) error {
	for !e.seq.IsLast() {
		step := e.seq.Current()
		if err := e.fill(step.Section, doc); err != nil {
			return fmt.Errorf("%s: %w", step.Title, err)
		}
		if err := e.Next(); err != nil {
			return &StepError{Step: step, Errors: e.ledger.Copy()}
		}
	}
	logger.Debug("Replayed application for %s", doc.PersonalInfo.Email)
	return nil
}

func (e *Engine) fill(section form.Section, doc *form.Document) error {
	if section == form.SectionQualifications {
		for _, q := range doc.Qualifications {
			q.ID = ""
			if _, err := e.AddQualification(q); err != nil {
				return fmt.Errorf("qualification %q: %w", q.Subject, err)
			}
		}
		return nil
	}

	patch, err := doc.PatchFrom(section)
	if err != nil {
		return err
	}
	if err := e.Update(section, patch); err != nil {
		return err
	}
	if section != form.SectionAvailability {
		return nil
	}

	for _, slot := range doc.Availability.TimeSlots {
		prefix := "timeSlots." + slot.Day + "."
		edits := [][2]string{
			{"available", strconv.FormatBool(slot.Available)},
			{"startTime", slot.StartTime},
			{"endTime", slot.EndTime},
		}
		for _, edit := range edits {
			if err := e.SetField(section, prefix+edit[0], edit[1]); err != nil {
				return err
			}
		}
	}
	for _, method := range doc.Availability.TeachingMethods {
		if err := e.SetField(section, "teachingMethods."+method, "yes"); err != nil {
			return err
		}
	}
	return nil
}
