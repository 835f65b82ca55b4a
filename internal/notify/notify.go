// Package notify is the best-effort side channel that tells people about
// invitations, review decisions and new messages. A failed notification never
// undoes the change that triggered it.
package notify

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Recipient struct {
	ProfileID uuid.UUID
	Email     string
	Name      string
}

type Event struct {
	Type       string
	Recipients []Recipient
	Subject    string
	Body       string
	Link       string
	Data       any
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Multi delivers an event through every notifier concurrently and joins
// their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	errs := make([]error, len(m))
	var g errgroup.Group
	for i, n := range m {
		g.Go(func() error {
			errs[i] = n.Notify(ctx, ev)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
