package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/filter"
	"ledger_dashboard/internal/domain/pagination"
	"ledger_dashboard/internal/processing"
	"ledger_dashboard/internal/sheets"

	"github.com/spf13/cobra"
)

// legacyAllPlayers is the player token older dashboard links use for every player
const legacyAllPlayers = "AP"

var anchorLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type transactionsOptions struct {
	player string
	sort   string
	at     string
	pages  int
	export bool
}

func newTransactionsCommand(rt *runtime) *cobra.Command {
	var opts transactionsOptions

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions for a player filter",
		Long: `List ledger transactions Before or After a point in time.

The first page is always fetched. --pages loads that many more pages
while the server reports more results; -1 loads everything.

Callers with view-all may pick any player or AP for all players.
Everyone else only sees their own transactions.

Examples:
  ledger transactions
  ledger transactions --player AP --sort after --at 2022-04-01
  ledger transactions --pages -1 --export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransactions(cmd.Context(), rt, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.player, "player", "", "Player id, or AP for all players")
	cmd.Flags().StringVar(&opts.sort, "sort", "before", "before (newest first) or after (oldest first)")
	cmd.Flags().StringVar(&opts.at, "at", "", "Time anchor (RFC3339 or YYYY-MM-DD[ HH:MM]); defaults to now")
	cmd.Flags().IntVar(&opts.pages, "pages", 0, "Additional pages to load; -1 for all")
	cmd.Flags().BoolVar(&opts.export, "export", false, "Append the loaded rows to the spreadsheet")

	return cmd
}

func runTransactions(ctx context.Context, rt *runtime, out io.Writer, opts transactionsOptions) error {
	sort, ok := filter.ParseSortDirection(strings.ToLower(opts.sort))
	if !ok {
		return fmt.Errorf("invalid --sort %q: expected before or after", opts.sort)
	}

	anchor := rt.now()
	if opts.at != "" {
		parsed, err := parseAnchor(opts.at)
		if err != nil {
			return err
		}
		anchor = parsed
	}

	view, err := processing.NewTransactionsView(rt.ledger, rt.session, anchor)
	if errors.Is(err, app.ErrUnauthorized) {
		fmt.Fprintln(out, app.UnauthorizedMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if opts.player != "" {
		if err := view.Filters.SetPlayerFilter(parsePlayerSelector(opts.player)); err != nil {
			if errors.Is(err, filter.ErrAllPlayersForbidden) || errors.Is(err, filter.ErrPlayerForbidden) {
				fmt.Fprintln(out, app.UnauthorizedMessage)
				return nil
			}
			return err
		}
	}
	view.Filters.SetSortDirection(sort)

	if err := view.Open(ctx); err != nil {
		renderFailure(out, err)
		return err
	}

	if opts.pages != 0 {
		if _, err := view.LoadPages(ctx, max(opts.pages, 0)); err != nil && !errors.Is(err, pagination.ErrNoMorePages) {
			renderFailure(out, err)
			return err
		}
	}

	query := view.Filters.BuildQuery()
	label := playerLabel(query.Player, view.Directory)
	snap := view.Ledger.Snapshot()
	rows := view.Rows()

	renderTransactions(out, label, query, snap, rows)

	if opts.export && len(rows) > 0 {
		exporter, err := rt.exporter(ctx)
		if err != nil {
			return err
		}
		sheetName := sheets.LedgerSheetName(label, query)
		written, err := exporter.ExportTransactions(ctx, sheetName, rows)
		if err != nil {
			return fmt.Errorf("failed to export transactions: %w", err)
		}
		fmt.Fprintf(out, "Exported %d new rows to %q\n", written, sheetName)
	}
	return nil
}

// parsePlayerSelector maps the --player flag onto a selector
func parsePlayerSelector(s string) filter.PlayerSelector {
	if strings.EqualFold(s, legacyAllPlayers) || strings.EqualFold(s, "all") {
		return filter.AllPlayers()
	}
	return filter.Player(s)
}

func parseAnchor(s string) (time.Time, error) {
	for _, layout := range anchorLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --at %q: expected RFC3339 or YYYY-MM-DD[ HH:MM]", s)
}

func playerLabel(selector filter.PlayerSelector, directory *processing.PlayerDirectory) string {
	id, ok := selector.PlayerID()
	if !ok {
		return "All Players"
	}
	return directory.DisplayName(id)
}
