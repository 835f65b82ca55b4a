package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const dispatchTimeout = 30 * time.Second

// Dispatcher sends notifications in the background and only logs failures.
type Dispatcher struct {
	notifier Notifier
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, logger zerolog.Logger) *Dispatcher {
	if notifier == nil {
		notifier = Nop{}
	}
	return &Dispatcher{
		notifier: notifier,
		logger:   logger.With().Str("component", "notify").Logger(),
	}
}

// Dispatch returns immediately. The event is delivered on its own goroutine
// with a context detached from the caller's request.
func (d *Dispatcher) Dispatch(ev Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, ev); err != nil {
			d.logger.Warn().Err(err).Str("event", ev.Type).Int("recipients", len(ev.Recipients)).
				Msg("notification failed")
		}
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
