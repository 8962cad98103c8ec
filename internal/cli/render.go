package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/filter"
	"ledger_dashboard/internal/domain/pagination"
	"ledger_dashboard/internal/ledger"
	"ledger_dashboard/internal/processing"
)

const (
	noResultsMessage = "No results found."
	loadingMessage   = "Loading..."
	displayLayout    = "2006-01-02 15:04:05"
	rule             = "─────────────────────────────────────────────────────────────────────────────"
)

func renderTransactions(out io.Writer, label string, query filter.Query, snap pagination.AccumulatedState, rows []processing.TransactionRow) {
	fmt.Fprintf(out, "\nTRANSACTIONS: %s, %s %s\n", label, query.Sort.Label(), query.TimeAnchor.Format(displayLayout))
	fmt.Fprintln(out, rule)

	switch snap.Status {
	case pagination.StatusIdle, pagination.StatusLoading:
		fmt.Fprintln(out, loadingMessage)
		return
	case pagination.StatusEmpty:
		fmt.Fprintln(out, noResultsMessage)
		return
	case pagination.StatusFailed:
		renderFailure(out, snap.Err)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPlayer\tTime\tCause\tAmount\tBalance")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			row.Index,
			row.PlayerName,
			row.Time.Format(displayLayout),
			row.Cause,
			formatAmount(row.Amount),
			formatMoney(row.Balance),
		)
	}
	w.Flush()

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Showing %d of %d transactions\n", len(rows), snap.TotalCount)
	if snap.HasMore() {
		fmt.Fprintln(out, "More available: rerun with --pages N or --pages -1")
	}
}

func renderServerChart(out io.Writer, year, month int, samples []app.ServerSample) {
	fmt.Fprintf(out, "\nSERVER BALANCE: %04d-%02d\n", year, month)
	fmt.Fprintln(out, rule)

	if len(samples) == 0 {
		fmt.Fprintln(out, noResultsMessage)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Date\tPlayers Tracked\tBalance")
	for _, s := range samples {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Date.Format(displayLayout), s.NumPlayersTracked, formatMoney(s.Balance))
	}
	w.Flush()
	fmt.Fprintln(out, rule)
}

func renderPlayers(out io.Writer, players []app.PlayerID) {
	if len(players) == 0 {
		fmt.Fprintln(out, noResultsMessage)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName")
	for _, p := range players {
		fmt.Fprintf(w, "%s\t%s\n", p.ID, p.Name)
	}
	w.Flush()
}

// renderFailure shows the fixed unauthorized text when the backend rejected
// the session's credentials
func renderFailure(out io.Writer, err error) {
	if ledger.IsUnauthorized(err) {
		fmt.Fprintln(out, app.UnauthorizedMessage)
		return
	}
	fmt.Fprintf(out, "Failed to load: %v\n", err)
}

// formatMoney renders a whole-dollar amount with thousands separators
func formatMoney(v float64) string {
	v = math.Round(v)
	negative := v < 0
	if negative {
		v = -v
	}

	digits := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	if negative {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// formatAmount is formatMoney with an explicit sign for credits
func formatAmount(v float64) string {
	if math.Round(v) > 0 {
		return "+" + formatMoney(v)
	}
	return formatMoney(v)
}
