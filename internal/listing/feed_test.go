package listing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
)

// gatedFetcher blocks each fetch until the test releases the gate for its
// category. It deliberately ignores cancellation so a stale response still
// arrives late.
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
	errs    map[string]error
}

func newGatedFetcher(categories ...string) *gatedFetcher {
	g := &gatedFetcher{
		gates:   make(map[string]chan struct{}),
		started: make(chan string, 16),
		errs:    make(map[string]error),
	}
	for _, c := range categories {
		g.gates[c] = make(chan struct{})
	}
	return g
}

func (g *gatedFetcher) release(category string) {
	close(g.gates[category])
}

func (g *gatedFetcher) FetchPage(_ context.Context, f query.Filters, page, pageSize int) (*Page[models.Project], error) {
	g.mu.Lock()
	gate := g.gates[f.Category]
	err := g.errs[f.Category]
	g.mu.Unlock()

	g.started <- f.Category
	<-gate

	if err != nil {
		return nil, err
	}
	return &Page[models.Project]{
		Items:    []models.Project{{Title: f.Category + " result"}},
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func waitStarted(t *testing.T, g *gatedFetcher, want string) {
	t.Helper()
	select {
	case got := <-g.started:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch for %q never started", want)
	}
}

func TestFeed_InitialStateIsLoading(t *testing.T) {
	feed := NewFeed[models.Project](newGatedFetcher())
	assert.Equal(t, Loading, feed.State().Kind)
}

func TestFeed_LastFilterWins(t *testing.T) {
	g := newGatedFetcher("A", "B")
	feed := NewFeed[models.Project](g)

	genA := feed.Fetch(context.Background(), query.Filters{Category: "A"}, 1, 10)
	waitStarted(t, g, "A")

	genB := feed.Fetch(context.Background(), query.Filters{Category: "B"}, 1, 10)
	waitStarted(t, g, "B")
	assert.Greater(t, genB, genA)
	assert.Equal(t, Loading, feed.State().Kind)

	g.release("B")
	g.release("A")
	feed.Wait()

	state := feed.State()
	require.Equal(t, Success, state.Kind)
	assert.Equal(t, genB, state.Generation)
	assert.Equal(t, "B", state.Filters.Category)
	require.Len(t, state.Page.Items, 1)
	assert.Equal(t, "B result", state.Page.Items[0].Title)
}

func TestFeed_StaleResponseArrivingFirstIsIgnored(t *testing.T) {
	g := newGatedFetcher("A", "B")
	feed := NewFeed[models.Project](g)

	feed.Fetch(context.Background(), query.Filters{Category: "A"}, 1, 10)
	waitStarted(t, g, "A")
	feed.Fetch(context.Background(), query.Filters{Category: "B"}, 1, 10)
	waitStarted(t, g, "B")

	g.release("A")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Loading, feed.State().Kind, "stale A must not surface while B is loading")

	g.release("B")
	feed.Wait()
	assert.Equal(t, "B", feed.State().Filters.Category)
}

func TestFeed_ErrorState(t *testing.T) {
	g := newGatedFetcher("A")
	g.errs["A"] = apperr.StoreUnavailable(errors.New("down"))
	feed := NewFeed[models.Project](g)

	feed.Fetch(context.Background(), query.Filters{Category: "A"}, 1, 10)
	waitStarted(t, g, "A")
	g.release("A")
	feed.Wait()

	state := feed.State()
	assert.Equal(t, Failed, state.Kind)
	assert.Equal(t, "data store unavailable", state.Message)
	assert.Nil(t, state.Page)
}

func TestFeed_SubscribeSeesExactlyOneStateAtATime(t *testing.T) {
	g := newGatedFetcher("A")
	feed := NewFeed[models.Project](g)

	updates, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	first := <-updates
	assert.Equal(t, Loading, first.Kind)

	feed.Fetch(context.Background(), query.Filters{Category: "A"}, 1, 10)
	waitStarted(t, g, "A")
	loading := <-updates
	assert.Equal(t, Loading, loading.Kind)

	g.release("A")
	feed.Wait()
	done := <-updates
	assert.Equal(t, Success, done.Kind)
	assert.NotNil(t, done.Page)
	assert.Empty(t, done.Message)
}

func TestFeed_CancelsSupersededContext(t *testing.T) {
	cancelled := make(chan struct{})
	fetcher := fetcherFunc(func(ctx context.Context, f query.Filters, page, size int) (*Page[models.Project], error) {
		if f.Category == "A" {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return &Page[models.Project]{}, nil
	})
	feed := NewFeed[models.Project](fetcher)

	feed.Fetch(context.Background(), query.Filters{Category: "A"}, 1, 10)
	feed.Fetch(context.Background(), query.Filters{Category: "B"}, 1, 10)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
	feed.Wait()
	assert.Equal(t, Success, feed.State().Kind)
	assert.Equal(t, "B", feed.State().Filters.Category)
}

func TestFeed_CallerCancelLeavesLoading(t *testing.T) {
	fetcher := fetcherFunc(func(ctx context.Context, f query.Filters, page, size int) (*Page[models.Project], error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	feed := NewFeed[models.Project](fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	gen := feed.Fetch(ctx, query.Filters{Category: "A"}, 1, 10)
	cancel()
	feed.Wait()

	state := feed.State()
	require.Equal(t, Failed, state.Kind)
	assert.Equal(t, gen, state.Generation)
	assert.Equal(t, "request cancelled", state.Message)
	assert.ErrorIs(t, state.Err, context.Canceled)
}

type fetcherFunc func(ctx context.Context, f query.Filters, page, size int) (*Page[models.Project], error)

func (fn fetcherFunc) FetchPage(ctx context.Context, f query.Filters, page, size int) (*Page[models.Project], error) {
	return fn(ctx, f, page, size)
}

func TestFeed_WithPipeline(t *testing.T) {
	src := &memorySource{projects: []models.Project{
		project("EcoTech Startup", "Climate", "MVP"),
		project("FinWave", "Fintech", "Idea"),
		project("Ecosystem Builder", "Community", "Scaling"),
	}}
	feed := NewFeed[models.Project](NewPipeline[models.Project](src, ProjectMatcher))

	feed.Fetch(context.Background(), query.Filters{Search: "eco"}, 1, 10)
	feed.Wait()

	state := feed.State()
	require.Equal(t, Success, state.Kind)
	assert.Equal(t, []string{"EcoTech Startup", "Ecosystem Builder"}, titles(state.Page.Items))
}

func TestStateKind_String(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Failed.String())
}
