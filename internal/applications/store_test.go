package applications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/teacherhub/internal/engine"
	"github.com/mark3labs/teacherhub/internal/form"
	"github.com/mark3labs/teacherhub/internal/nats"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	emb, err := nats.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = emb.Close() })
	return NewStore(emb.JS, emb.Stream)
}

func applicant(email string) form.Document {
	doc := form.New()
	doc.PersonalInfo.FirstName = "Ada"
	doc.PersonalInfo.LastName = "Lovelace"
	doc.PersonalInfo.Email = email
	return *doc
}

// Compile-time check that the store can back the wizard.
var _ engine.Backend = (*Store)(nil)

func TestStore_SubmitAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	app, err := store.Submit(ctx, applicant("ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, "ada-at-example-com", app.Applicant)

	apps, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, app.ID, apps[0].ID)
	assert.Equal(t, "Ada Lovelace", apps[0].Name)
	assert.Equal(t, "ada@example.com", apps[0].Document.PersonalInfo.Email)
	assert.Len(t, apps[0].Document.Availability.TimeSlots, 7)
}

func TestStore_RejectsDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Submit(ctx, applicant("ada@example.com"))
	require.NoError(t, err)

	err = store.SubmitApplication(ctx, applicant("ADA@example.com"))
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, "An application for ADA@example.com already exists", err.Error())
}

func TestStore_RejectedApplicantMayReapply(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Submit(ctx, applicant("ada@example.com"))
	require.NoError(t, err)
	_, err = store.SetStatus(ctx, first.ID, StatusRejected, "incomplete availability")
	require.NoError(t, err)

	require.NoError(t, store.SubmitApplication(ctx, applicant("ada@example.com")))

	pending, err := store.List(ctx, StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	rejected, err := store.List(ctx, StatusRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "incomplete availability", rejected[0].Note)
}

func TestStore_GetByPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	app, err := store.Submit(ctx, applicant("ada@example.com"))
	require.NoError(t, err)

	got, err := store.Get(ctx, app.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	_, err = store.Get(ctx, "zzzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SetStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	app, err := store.Submit(ctx, applicant("ada@example.com"))
	require.NoError(t, err)

	updated, err := store.SetStatus(ctx, app.ID, StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)

	got, err := store.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)

	_, err = store.SetStatus(ctx, "missing", StatusApproved, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestState_Apply(t *testing.T) {
	st := &State{Applications: map[string]*Application{}}
	doc := applicant("grace@example.com")
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	st.Apply(Event{ID: "1", Timestamp: t0, Applicant: "grace-at-example-com", Action: ActionSubmit,
		Meta: json.RawMessage(`{"application_id":"a1"}`), Data: string(data)})
	st.Apply(Event{ID: "2", Timestamp: t0.Add(time.Hour), Action: ActionStatus,
		Meta: json.RawMessage(`{"application_id":"a1","status":"approved"}`)})
	st.Apply(Event{ID: "3", Action: ActionStatus,
		Meta: json.RawMessage(`{"application_id":"ghost","status":"approved"}`)})
	st.Apply(Event{ID: "4", Action: ActionSubmit, Meta: json.RawMessage(`not json`)})

	require.Len(t, st.Applications, 1)
	app := st.Applications["a1"]
	assert.Equal(t, StatusApproved, app.Status)
	assert.Equal(t, t0, app.SubmittedAt)
	assert.Equal(t, t0.Add(time.Hour), app.UpdatedAt)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("Approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	_, err = ParseStatus("maybe")
	assert.Error(t, err)
}

func TestApplicantToken(t *testing.T) {
	assert.Equal(t, "ada-at-example-com", ApplicantToken(" Ada@Example.com "))
	assert.Equal(t, "anonymous", ApplicantToken(""))
}
