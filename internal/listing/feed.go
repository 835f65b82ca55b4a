package listing

import (
	"context"
	"errors"
	"sync"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/query"
)

type StateKind int

const (
	Loading StateKind = iota
	Success
	Failed
)

func (k StateKind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Success:
		return "success"
	default:
		return "error"
	}
}

// State is exactly one of loading, success(page) or error(message).
type State[T any] struct {
	Kind       StateKind
	Page       *Page[T]
	Err        error
	Message    string
	Filters    query.Filters
	Generation uint64
}

// Fetcher is satisfied by *Pipeline.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, f query.Filters, page, pageSize int) (*Page[T], error)
}

// Feed drives a Fetcher for a consumer that keeps changing filters. Every
// Fetch supersedes the previous one: its context is cancelled and any result
// it still produces is discarded, so the visible state always belongs to the
// most recent request.
type Feed[T any] struct {
	fetcher Fetcher[T]

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State[T]
	subs   map[int]chan State[T]
	nextID int
	wg     sync.WaitGroup
}

func NewFeed[T any](fetcher Fetcher[T]) *Feed[T] {
	return &Feed[T]{
		fetcher: fetcher,
		state:   State[T]{Kind: Loading},
		subs:    make(map[int]chan State[T]),
	}
}

// Fetch starts loading the given page and returns its generation token.
func (f *Feed[T]) Fetch(ctx context.Context, filters query.Filters, page, pageSize int) uint64 {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.setLocked(State[T]{Kind: Loading, Filters: filters, Generation: gen})
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		defer cancel()

		result, err := f.fetcher.FetchPage(fetchCtx, filters, page, pageSize)
		f.complete(gen, filters, result, err)
	}()

	return gen
}

func (f *Feed[T]) complete(gen uint64, filters query.Filters, page *Page[T], err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		return
	}

	// A superseded fetch was dropped above, so a cancellation here came from
	// the caller's context and must still leave the loading state.
	if err != nil {
		msg := apperr.PublicMessage(err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			msg = "request cancelled"
		}
		f.setLocked(State[T]{Kind: Failed, Err: err, Message: msg, Filters: filters, Generation: gen})
		return
	}
	f.setLocked(State[T]{Kind: Success, Page: page, Filters: filters, Generation: gen})
}

func (f *Feed[T]) setLocked(s State[T]) {
	f.state = s
	for _, ch := range f.subs {
		select {
		case ch <- s:
		default:
			// Slow subscriber: replace the oldest pending state with the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func (f *Feed[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subscribe returns a channel of state changes, starting with the current
// state, and a function that ends the subscription.
func (f *Feed[T]) Subscribe() (<-chan State[T], func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan State[T], 8)
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	ch <- f.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			close(ch)
			f.mu.Unlock()
		})
	}
}

// Wait blocks until every started fetch has returned.
func (f *Feed[T]) Wait() {
	f.wg.Wait()
}

// Close cancels the in-flight fetch and waits for it to return.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.mu.Unlock()
	f.wg.Wait()
}
