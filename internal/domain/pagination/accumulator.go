package pagination

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/filter"

	"github.com/rs/zerolog/log"
)

// TransactionSource fetches one page of the ledger
type TransactionSource interface {
	GetTransactions(ctx context.Context, query filter.Query) (*app.PageResult, error)
}

type pendingFetch struct {
	generation uint64
	query      filter.Query
}

// Accumulator pages through the ledger for the filters held by a
// filter.Controller and merges the pages into one ordered list.
//
// Every search and every filter change starts a new generation. A response is
// applied only if its generation is still current; late responses for an
// older generation are dropped. At most one fetch is outstanding per
// generation. The lock is never held across a network call, so Search and
// LoadMore may be called from separate goroutines.
type Accumulator struct {
	mu         sync.Mutex
	source     TransactionSource
	filters    *filter.Controller
	generation uint64
	pending    *pendingFetch
	state      AccumulatedState
}

// NewAccumulator creates an accumulator and subscribes it to filter changes
func NewAccumulator(source TransactionSource, filters *filter.Controller) *Accumulator {
	a := &Accumulator{
		source:  source,
		filters: filters,
		state:   AccumulatedState{Page: -1},
	}
	filters.Subscribe(a.onFilterChanged)
	return a
}

// Search starts a new accumulation from page 0 of the current filters.
// If an identical page-0 fetch is already in flight the call is a no-op.
func (a *Accumulator) Search(ctx context.Context) error {
	a.mu.Lock()
	a.filters.RequestPage(0)
	query := a.filters.BuildQuery()

	if p := a.pending; p != nil && p.generation == a.generation &&
		p.query.Page == 0 && p.query.SameFilter(query) {
		a.mu.Unlock()
		log.Debug().
			Uint64("generation", p.generation).
			Msg("Identical search already in flight, ignoring")
		return nil
	}

	a.generation++
	generation := a.generation
	a.pending = &pendingFetch{generation: generation, query: query}
	a.state = AccumulatedState{Page: -1, Generation: generation, Status: StatusLoading}
	a.mu.Unlock()

	return a.fetch(ctx, generation, query)
}

// LoadMore fetches the page after the last successfully fetched one and
// appends it. A call made while any fetch is outstanding is dropped with
// ErrFetchInProgress and issues no request.
func (a *Accumulator) LoadMore(ctx context.Context) error {
	a.mu.Lock()
	if a.pending != nil {
		generation := a.pending.generation
		a.mu.Unlock()
		log.Debug().Uint64("generation", generation).Msg("Dropping load-more while a fetch is outstanding")
		return ErrFetchInProgress
	}
	if !a.state.Loaded() {
		a.mu.Unlock()
		return ErrNotLoaded
	}
	if !a.state.HasMore() {
		a.mu.Unlock()
		return ErrNoMorePages
	}

	a.filters.RequestPage(a.state.Page + 1)
	query := a.filters.BuildQuery()
	generation := a.generation
	a.pending = &pendingFetch{generation: generation, query: query}
	a.state.Status = StatusLoading
	a.mu.Unlock()

	return a.fetch(ctx, generation, query)
}

// HasMore reports whether more transactions exist for the current filters
func (a *Accumulator) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.HasMore()
}

// Snapshot returns a copy of the accumulated state
func (a *Accumulator) Snapshot() AccumulatedState {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.state
	s.Transactions = slices.Clone(a.state.Transactions)
	return s
}

func (a *Accumulator) fetch(ctx context.Context, generation uint64, query filter.Query) error {
	log.Debug().
		Uint64("generation", generation).
		Int("page", query.Page).
		Str("player", query.Player.String()).
		Str("sort", query.Sort.String()).
		Msg("Fetching transactions page")

	result, err := a.source.GetTransactions(ctx, query)
	if err == nil && result == nil {
		err = errors.New("empty response")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if generation != a.generation {
		log.Debug().
			Uint64("response_generation", generation).
			Uint64("current_generation", a.generation).
			Int("page", query.Page).
			Msg("Discarding stale transactions response")
		return nil
	}
	a.pending = nil

	if err != nil {
		a.state.Status = StatusFailed
		a.state.Err = err
		log.Warn().
			Err(err).
			Uint64("generation", generation).
			Int("page", query.Page).
			Msg("Failed to fetch transactions page")
		return fmt.Errorf("%w: page %d: %w", ErrRequestFailed, query.Page, err)
	}

	a.apply(query.Page, result)
	return nil
}

// apply merges a page of the current generation. Caller holds a.mu.
func (a *Accumulator) apply(page int, result *app.PageResult) {
	total := max(result.TotalCount, 0)

	var merged []app.Transaction
	if page > 0 {
		merged = a.state.Transactions
	}
	merged = mergePage(merged, result.Transactions, total)

	// An empty page short of the total means the server total overstated the
	// result set; stop paging rather than asking forever.
	if len(result.Transactions) == 0 && len(merged) < total {
		log.Warn().
			Int("page", page).
			Int("total_count", total).
			Int("accumulated", len(merged)).
			Msg("Empty page before reaching total count, ending pagination")
		total = len(merged)
	}

	status := StatusLoaded
	if len(merged) == 0 {
		status = StatusEmpty
	}

	a.state = AccumulatedState{
		Transactions: merged,
		TotalCount:   total,
		Status:       status,
		Page:         page,
		Generation:   a.generation,
	}

	log.Debug().
		Uint64("generation", a.generation).
		Int("page", page).
		Int("page_size", len(result.Transactions)).
		Int("accumulated", len(merged)).
		Int("total_count", total).
		Msg("Merged transactions page")
}

func (a *Accumulator) onFilterChanged(query filter.Query) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.generation++
	a.pending = nil
	a.state = AccumulatedState{Page: -1, Generation: a.generation, Status: StatusIdle}

	log.Debug().
		Uint64("generation", a.generation).
		Str("player", query.Player.String()).
		Msg("Filters changed, accumulation reset")
}
