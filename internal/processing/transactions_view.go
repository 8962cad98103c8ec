package processing

import (
	"context"
	"fmt"
	"time"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/filter"
	"ledger_dashboard/internal/domain/pagination"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// TransactionRow is one display row of the ledger table
type TransactionRow struct {
	Index      int
	PlayerID   string
	PlayerName string
	Amount     float64
	Time       time.Time
	Cause      string
	Balance    float64
}

// TransactionsView wires the filter controller, the accumulator and the
// player directory for one session
type TransactionsView struct {
	Filters   *filter.Controller
	Ledger    *pagination.Accumulator
	Directory *PlayerDirectory
}

// NewTransactionsView returns app.ErrUnauthorized, without touching the
// network, when session may not view transactions
func NewTransactionsView(client LedgerClientInterface, session app.Session, anchor time.Time) (*TransactionsView, error) {
	filters, err := filter.NewController(session, anchor)
	if err != nil {
		return nil, err
	}

	return &TransactionsView{
		Filters:   filters,
		Ledger:    pagination.NewAccumulator(client, filters),
		Directory: NewPlayerDirectory(client, session),
	}, nil
}

// Open loads the player directory and the first page concurrently
func (v *TransactionsView) Open(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return v.Directory.Load(gctx)
	})
	g.Go(func() error {
		return v.Ledger.Search(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to open transactions view: %w", err)
	}

	snap := v.Ledger.Snapshot()
	log.Info().
		Int("loaded", len(snap.Transactions)).
		Int("total_count", snap.TotalCount).
		Str("status", snap.Status.String()).
		Msg("Opened transactions view")
	return nil
}

// LoadPages keeps loading while more pages exist, up to maxPages additional
// pages. maxPages <= 0 means no limit.
func (v *TransactionsView) LoadPages(ctx context.Context, maxPages int) (int, error) {
	loaded := 0
	for v.Ledger.HasMore() && (maxPages <= 0 || loaded < maxPages) {
		if err := v.Ledger.LoadMore(ctx); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

// Rows joins the accumulated transactions with player display names
func (v *TransactionsView) Rows() []TransactionRow {
	snap := v.Ledger.Snapshot()
	rows := make([]TransactionRow, len(snap.Transactions))
	for i, tx := range snap.Transactions {
		rows[i] = TransactionRow{
			Index:      i + 1,
			PlayerID:   tx.PlayerID,
			PlayerName: v.Directory.DisplayName(tx.PlayerID),
			Amount:     tx.Amount,
			Time:       tx.Time(),
			Cause:      tx.Cause,
			Balance:    tx.Balance,
		}
	}
	return rows
}
