// Package testfixtures provides fixtures, a mock submission backend and
// rendering helpers for wizard tests.
//
// Example usage:
//
//	backend := testfixtures.NewMockBackend()
//	backend.Errors = []error{errors.New("email already registered")}
//	eng := engine.New(backend, engine.Options{})
//	// drive the wizard...
//	require.Equal(t, 2, backend.Calls())
package testfixtures

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/teacherhub/internal/form"
)

// MockBackend is an engine.Backend that records submitted documents.
// It is safe for concurrent use.
type MockBackend struct {
	mu sync.Mutex

	// Errors are returned by successive calls; once exhausted calls succeed.
	Errors []error
	// Delay blocks each call, honouring context cancellation.
	Delay time.Duration

	submitted []form.Document
	calls     int
}

// NewMockBackend creates a backend that accepts every submission.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// SubmitApplication records doc and returns the next configured error.
func (m *MockBackend) SubmitApplication(ctx context.Context, doc form.Document) error {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.Errors) > 0 {
		err := m.Errors[0]
		m.Errors = m.Errors[1:]
		if err != nil {
			return err
		}
	}
	m.submitted = append(m.submitted, *doc.Clone())
	return nil
}

// Calls returns how many submissions reached the backend.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Submitted returns copies of the accepted documents in order.
func (m *MockBackend) Submitted() []form.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]form.Document(nil), m.submitted...)
}

// Last returns the most recently accepted document, or nil.
func (m *MockBackend) Last() *form.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.submitted) == 0 {
		return nil
	}
	doc := m.submitted[len(m.submitted)-1]
	return &doc
}
