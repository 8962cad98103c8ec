package processing

import (
	"context"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/filter"
)

// PlayerSourceInterface fetches the full /player-ids list
type PlayerSourceInterface interface {
	GetPlayerIDs(ctx context.Context) ([]app.PlayerID, error)
}

// LedgerClientInterface is everything the dashboard needs from the backend
type LedgerClientInterface interface {
	PlayerSourceInterface
	GetTransactions(ctx context.Context, query filter.Query) (*app.PageResult, error)
	GetServerBalance(ctx context.Context, month int) ([]float64, error)
}
