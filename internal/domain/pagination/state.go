package pagination

import (
	"errors"

	"ledger_dashboard/internal/app"
)

var (
	// ErrRequestFailed wraps network and decoding failures of a page fetch
	ErrRequestFailed = errors.New("transaction request failed")
	// ErrFetchInProgress is returned when LoadMore is called while a fetch is outstanding
	ErrFetchInProgress = errors.New("a page fetch is already in progress")
	// ErrNotLoaded is returned when LoadMore is called before a search completed
	ErrNotLoaded = errors.New("no completed search to extend")
	// ErrNoMorePages is returned when LoadMore is called after the last page
	ErrNoMorePages = errors.New("all transactions already loaded")
)

// Status describes what the presentation layer should show
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// AccumulatedState is a read-only copy of the accumulator's result list
type AccumulatedState struct {
	Transactions []app.Transaction
	TotalCount   int
	Status       Status
	// Page is the last successfully fetched page, -1 before the first one
	Page       int
	Generation uint64
	Err        error
}

// Loaded reports whether at least one page of the current generation arrived
func (s AccumulatedState) Loaded() bool {
	return s.Page >= 0
}

// HasMore reports whether the server announced more rows than are loaded.
// It is false until the first page of the current generation arrives.
func (s AccumulatedState) HasMore() bool {
	return s.Loaded() && len(s.Transactions) < s.TotalCount
}

// mergePage appends page to acc, never growing acc beyond totalCount
func mergePage(acc []app.Transaction, page []app.Transaction, totalCount int) []app.Transaction {
	room := totalCount - len(acc)
	if room <= 0 {
		return acc
	}
	if len(page) > room {
		page = page[:room]
	}
	return append(acc, page...)
}
