// Package analytics counts project views in memory and writes them to the
// store in batches.
package analytics

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const flushTimeout = 10 * time.Second

type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// FlushError reports the row a batched flush stopped at.
type FlushError struct {
	FailedIndex int
	Total       int
	Err         error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("failed to flush view count %d/%d: %v", e.FailedIndex, e.Total, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }

// Tracker is created once at startup and shared by every handler that records
// views. Counts that fail to flush are kept for the next attempt.
type Tracker struct {
	store  BatchSender
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[uuid.UUID]int64
}

func NewTracker(store BatchSender, logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:   store,
		logger:  logger.With().Str("component", "analytics").Logger(),
		pending: make(map[uuid.UUID]int64),
	}
}

func (t *Tracker) RecordView(projectID uuid.UUID) {
	t.mu.Lock()
	t.pending[projectID]++
	t.mu.Unlock()
}

// Pending returns the unflushed count for a project.
func (t *Tracker) Pending(projectID uuid.UUID) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending[projectID]
}

// Flush writes every pending count in one round trip.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	counts := t.pending
	t.pending = make(map[uuid.UUID]int64)
	t.mu.Unlock()

	if len(counts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`UPDATE projects SET view_count = view_count + $1 WHERE id = $2`, counts[id], id)
	}

	// The batch runs in one implicit transaction: any failure rolls back
	// every row, so every count goes back to pending.
	results := t.store.SendBatch(ctx, batch)
	for i := range ids {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			t.restore(ids, counts)
			return &FlushError{FailedIndex: i, Total: len(ids), Err: err}
		}
	}
	if err := results.Close(); err != nil {
		t.restore(ids, counts)
		return &FlushError{FailedIndex: len(ids), Total: len(ids), Err: err}
	}
	return nil
}

func (t *Tracker) restore(ids []uuid.UUID, counts map[uuid.UUID]int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		t.pending[id] += counts[id]
	}
}

// Run flushes on every tick until ctx is cancelled, then flushes one last
// time with a fresh deadline.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := t.Flush(ctx); err != nil {
				t.logger.Warn().Err(err).Msg("view count flush failed")
			}
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			if err := t.Flush(flushCtx); err != nil {
				t.logger.Error().Err(err).Msg("final view count flush failed")
			}
			cancel()
			return
		}
	}
}
