// Package notify defines the user-notification collaborator. Actual email
// delivery lives outside this service; implementations here are a no-op
// sink and a recording fake for tests.
package notify

import (
	"context"
	"sync"
)

// Notifier informs a user that a report was generated for their account.
type Notifier interface {
	ReportGenerated(ctx context.Context, email string) error
}

// Noop discards notifications.
type Noop struct{}

func (Noop) ReportGenerated(context.Context, string) error { return nil }

// Recorder captures notified addresses, for tests.
type Recorder struct {
	mu     sync.Mutex
	Emails []string
}

func (r *Recorder) ReportGenerated(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Emails = append(r.Emails, email)
	return nil
}
