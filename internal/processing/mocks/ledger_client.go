package mocks

import (
	"context"
	"sync"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/filter"
)

// MockLedgerClient is a test double for ledger.Client
type MockLedgerClient struct {
	mu sync.Mutex

	// Responses to return
	PlayerIDsResponse     []app.PlayerID
	ServerBalanceResponse []float64
	// Ledger is paged with PageSize; TotalCount is len(Ledger)
	Ledger   []app.Transaction
	PageSize int

	// Errors to return
	PlayerIDsError     error
	TransactionsError  error
	ServerBalanceError error

	// Call tracking
	GetPlayerIDsCalls        int
	GetTransactionsQueries   []filter.Query
	GetServerBalanceCalledAt []int
}

// NewMockLedgerClient creates a new mock ledger client
func NewMockLedgerClient() *MockLedgerClient {
	return &MockLedgerClient{PageSize: 10}
}

func (m *MockLedgerClient) GetPlayerIDs(ctx context.Context) ([]app.PlayerID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerIDsCalls++
	return m.PlayerIDsResponse, m.PlayerIDsError
}

func (m *MockLedgerClient) GetTransactions(ctx context.Context, query filter.Query) (*app.PageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTransactionsQueries = append(m.GetTransactionsQueries, query)
	if m.TransactionsError != nil {
		return nil, m.TransactionsError
	}

	var matching []app.Transaction
	for _, tx := range m.Ledger {
		if id, ok := query.Player.PlayerID(); ok && tx.PlayerID != id {
			continue
		}
		matching = append(matching, tx)
	}

	start := min(query.Page*m.PageSize, len(matching))
	end := min(start+m.PageSize, len(matching))
	return &app.PageResult{
		TotalCount:   len(matching),
		Transactions: append([]app.Transaction(nil), matching[start:end]...),
	}, nil
}

func (m *MockLedgerClient) GetServerBalance(ctx context.Context, month int) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetServerBalanceCalledAt = append(m.GetServerBalanceCalledAt, month)
	return m.ServerBalanceResponse, m.ServerBalanceError
}

// TransactionCalls returns how many page requests were made
func (m *MockLedgerClient) TransactionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetTransactionsQueries)
}
