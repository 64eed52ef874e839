package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream holding every application event.
	StreamName = "teacherhub_events"

	subjectRoot = "teacherhub"
)

// SubjectForApplicant returns the subject carrying one applicant's events.
// Example: "teacherhub.applications.ada-at-example-com"
func SubjectForApplicant(applicant string) string {
	return fmt.Sprintf("%s.applications.%s", subjectRoot, applicant)
}

// SubjectForApplications matches the events of every applicant.
func SubjectForApplications() string {
	return subjectRoot + ".applications.>"
}

// SetupStream creates or updates the application event stream. Events are
// kept until removed; a decision on an application can come much later
// than its submission.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "TeacherHub application events",
		Subjects:    []string{subjectRoot + ".>"},
		Storage:     jetstream.FileStorage,
	})
}

// ReplayConsumer creates an ephemeral consumer that delivers every event
// matching filter from the start of the stream.
func ReplayConsumer(ctx context.Context, stream jetstream.Stream, filter string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: filter,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
}
