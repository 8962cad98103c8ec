package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/filter"
)

var testAnchor = time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)

var errBackend = errors.New("backend unavailable")

// makeLedger builds n transactions whose Cause is their index
func makeLedger(playerID string, n int) []app.Transaction {
	txs := make([]app.Transaction, n)
	for i := range txs {
		txs[i] = app.Transaction{
			PlayerID:  playerID,
			Amount:    float64(i),
			Timestamp: testAnchor.UnixMilli() - int64(i)*1000,
			Cause:     fmt.Sprint(i),
			Balance:   float64(1000 + i),
		}
	}
	return txs
}

// pagedSource serves a fixed ledger in pages of pageSize and records every query
type pagedSource struct {
	mu       sync.Mutex
	ledger   []app.Transaction
	pageSize int
	failPage map[int]error
	queries  []filter.Query
}

func newPagedSource(ledger []app.Transaction, pageSize int) *pagedSource {
	return &pagedSource{ledger: ledger, pageSize: pageSize, failPage: map[int]error{}}
}

func (s *pagedSource) GetTransactions(ctx context.Context, query filter.Query) (*app.PageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, query)
	if err, ok := s.failPage[query.Page]; ok && err != nil {
		return nil, err
	}

	start := min(query.Page*s.pageSize, len(s.ledger))
	end := min(start+s.pageSize, len(s.ledger))
	return &app.PageResult{
		TotalCount:   len(s.ledger),
		Transactions: append([]app.Transaction(nil), s.ledger[start:end]...),
	}, nil
}

func (s *pagedSource) pages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := make([]int, len(s.queries))
	for i, q := range s.queries {
		pages[i] = q.Page
	}
	return pages
}

type reply struct {
	result *app.PageResult
	err    error
}

type gatedCall struct {
	query filter.Query
	reply chan reply
}

// gatedSource hands every request to the test, which decides when and how it completes
type gatedSource struct {
	calls chan *gatedCall
}

func newGatedSource() *gatedSource {
	return &gatedSource{calls: make(chan *gatedCall, 16)}
}

func (s *gatedSource) GetTransactions(ctx context.Context, query filter.Query) (*app.PageResult, error) {
	call := &gatedCall{query: query, reply: make(chan reply, 1)}
	s.calls <- call
	select {
	case r := <-call.reply:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *gatedSource) next(t *testing.T) *gatedCall {
	t.Helper()
	select {
	case call := <-s.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a request")
		return nil
	}
}

func (s *gatedSource) expectNoCall(t *testing.T) {
	t.Helper()
	select {
	case call := <-s.calls:
		t.Fatalf("Unexpected request for page %d", call.query.Page)
	case <-time.After(50 * time.Millisecond):
	}
}

func newController(t *testing.T) *filter.Controller {
	t.Helper()
	session := app.NewSession("p-admin", []string{app.CapViewAllTransactions})
	c, err := filter.NewController(session, testAnchor)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

// async runs fn in a goroutine and returns a channel with its error
func async(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for operation")
		return nil
	}
}

func assertLedgerPrefix(t *testing.T, got []app.Transaction, n int) {
	t.Helper()
	if len(got) != n {
		t.Fatalf("Expected %d transactions, got %d", n, len(got))
	}
	for i, tx := range got {
		if tx.Cause != fmt.Sprint(i) {
			t.Fatalf("Expected transaction %d at position %d, got %s", i, i, tx.Cause)
		}
	}
}
