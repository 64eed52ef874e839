// Package applications persists submitted teacher applications as an
// append-only event log in JetStream and rebuilds their current state by
// replaying it.
package applications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/logger"
	"github.com/mark3labs/teacherhub/internal/nats"
)

const (
	ActionSubmit = "submit"
	ActionStatus = "status"
)

// Status is the review state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(s)); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("invalid status %q (want pending, approved or rejected)", s)
}

var (
	// ErrNotFound is returned when no application matches an id.
	ErrNotFound = errors.New("application not found")
	// ErrAmbiguous is returned when an id prefix matches more than one application.
	ErrAmbiguous = errors.New("application id prefix is ambiguous")
	// ErrDuplicate matches DuplicateError with errors.Is.
	ErrDuplicate = errors.New("application already exists")
)

// DuplicateError rejects a second open application for the same email.
// Its text is shown to the applicant as is.
type DuplicateError struct {
	Email string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("An application for %s already exists", e.Email)
}

// Is makes errors.Is(err, ErrDuplicate) match.
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// Event is one entry of the application log.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Applicant string          `json:"applicant"` // subject token derived from the email
	Action    string          `json:"action"`    // submit or status
	Meta      json.RawMessage `json:"meta"`
	Data      string          `json:"data"` // document JSON for submit events
}

type eventMeta struct {
	ApplicationID string `json:"application_id"`
	Status        Status `json:"status,omitempty"`
	Note          string `json:"note,omitempty"`
}

// Application is the reduced view of one submission.
type Application struct {
	ID          string        `json:"id"`
	Applicant   string        `json:"applicant"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Note        string        `json:"note,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Document    form.Document `json:"document"`
}

// State is the result of replaying the log.
type State struct {
	Applications map[string]*Application
}

// Apply reduces one event into the state.
func (st *State) Apply(event Event) {
	var meta eventMeta
	if err := json.Unmarshal(event.Meta, &meta); err != nil {
		logger.Warn("Skipping event %s with bad meta: %v", event.ID, err)
		return
	}

	switch event.Action {
	case ActionSubmit:
		var doc form.Document
		if err := json.Unmarshal([]byte(event.Data), &doc); err != nil {
			logger.Warn("Skipping submit event %s with bad document: %v", event.ID, err)
			return
		}
		st.Applications[meta.ApplicationID] = &Application{
			ID:          meta.ApplicationID,
			Applicant:   event.Applicant,
			Email:       doc.PersonalInfo.Email,
			Name:        doc.FullName(),
			Status:      StatusPending,
			SubmittedAt: event.Timestamp,
			UpdatedAt:   event.Timestamp,
			Document:    doc,
		}
	case ActionStatus:
		app, ok := st.Applications[meta.ApplicationID]
		if !ok {
			logger.Warn("Status event %s for unknown application %s", event.ID, meta.ApplicationID)
			return
		}
		app.Status = meta.Status
		app.Note = meta.Note
		app.UpdatedAt = event.Timestamp
	}
}

// Sorted returns the applications ordered by submission time.
func (st *State) Sorted() []*Application {
	out := make([]*Application, 0, len(st.Applications))
	for _, app := range st.Applications {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

// Store reads and writes the application log. It is safe for concurrent use.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	now    func() time.Time
}

// NewStore creates a store over an existing stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream, now: time.Now}
}

// ApplicantToken turns an email into the subject token used for its events.
func ApplicantToken(email string) string {
	local := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(email)), "@", " at ")
	token := slug.Make(local)
	if token == "" {
		return "anonymous"
	}
	return token
}

// PublishEvent appends event to the log. The event ID doubles as the
// JetStream message ID so a retried publish is stored once.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForApplicant(event.Applicant)
	logger.Debug("Publishing event: applicant=%s action=%s", event.Applicant, event.Action)

	ack, err := s.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.ID))
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// LoadState replays every application event.
func (s *Store) LoadState(ctx context.Context) (*State, error) {
	consumer, err := nats.ReplayConsumer(ctx, s.stream, nats.SubjectForApplications())
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	state := &State{Applications: make(map[string]*Application)}

	const batchSize = 1000
	total := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				meta, _ := msg.Metadata()
				if meta != nil {
					logger.Warn("Skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}
			state.Apply(event)
			_ = msg.Ack()
		}
		if err := msgs.Error(); err != nil {
			return nil, fmt.Errorf("failed to fetch events: %w", err)
		}
		total += count
		if count < batchSize {
			break
		}
	}

	logger.Debug("State loaded: %d events, %d applications", total, len(state.Applications))
	return state, nil
}

// SubmitApplication stores doc as a new pending application. An email that
// already has a pending or approved application is refused with a
// DuplicateError.
func (s *Store) SubmitApplication(ctx context.Context, doc form.Document) error {
	_, err := s.Submit(ctx, doc)
	return err
}

// Submit stores doc and returns the created application.
func (s *Store) Submit(ctx context.Context, doc form.Document) (*Application, error) {
	email := strings.TrimSpace(doc.PersonalInfo.Email)
	state, err := s.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	for _, app := range state.Applications {
		if strings.EqualFold(app.Email, email) && app.Status != StatusRejected {
			return nil, &DuplicateError{Email: email}
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	id := uuid.NewString()
	meta, _ := json.Marshal(eventMeta{ApplicationID: id})

	event := Event{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		Applicant: ApplicantToken(email),
		Action:    ActionSubmit,
		Meta:      meta,
		Data:      string(data),
	}
	if _, err := s.PublishEvent(ctx, event); err != nil {
		return nil, err
	}
	logger.Info("Stored application %s for %s", id, email)

	app := &Application{
		ID:          id,
		Applicant:   event.Applicant,
		Email:       email,
		Name:        doc.FullName(),
		Status:      StatusPending,
		SubmittedAt: event.Timestamp,
		UpdatedAt:   event.Timestamp,
		Document:    doc,
	}
	return app, nil
}

// List returns applications in submission order. A non-empty status
// filters the result.
func (s *Store) List(ctx context.Context, status Status) ([]*Application, error) {
	state, err := s.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	all := state.Sorted()
	if status == "" {
		return all, nil
	}
	out := all[:0]
	for _, app := range all {
		if app.Status == status {
			out = append(out, app)
		}
	}
	return out, nil
}

// Get finds an application by full id or unique id prefix.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (*Application, error) {
	state, err := s.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	return state.find(idOrPrefix)
}

func (st *State) find(idOrPrefix string) (*Application, error) {
	if app, ok := st.Applications[idOrPrefix]; ok {
		return app, nil
	}
	var match *Application
	for id, app := range st.Applications {
		if idOrPrefix != "" && strings.HasPrefix(id, idOrPrefix) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguous, idOrPrefix)
			}
			match = app
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return match, nil
}

// SetStatus records a review decision for the application matching
// idOrPrefix and returns the updated application.
func (s *Store) SetStatus(ctx context.Context, idOrPrefix string, status Status, note string) (*Application, error) {
	state, err := s.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	app, err := state.find(idOrPrefix)
	if err != nil {
		return nil, err
	}

	meta, _ := json.Marshal(eventMeta{ApplicationID: app.ID, Status: status, Note: note})
	event := Event{
		Timestamp: s.now(),
		Applicant: app.Applicant,
		Action:    ActionStatus,
		Meta:      meta,
	}
	if _, err := s.PublishEvent(ctx, event); err != nil {
		return nil, err
	}
	logger.Info("Application %s is now %s", app.ID, status)

	state.Apply(event)
	return app, nil
}
