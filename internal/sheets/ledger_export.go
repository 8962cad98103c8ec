package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/domain/filter"
	"ledger_dashboard/internal/processing"

	"github.com/rs/zerolog/log"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	anchorLayout    = "20060102T150405Z"
	ledgerColumns   = 7
	chartColumns    = 3
)

var ledgerHeader = []interface{}{"#", "Player", "Player ID", "Time", "Cause", "Amount", "Balance"}

var chartHeader = []interface{}{"Date", "Players Tracked", "Balance"}

// Exporter writes dashboard data into a spreadsheet
type Exporter struct {
	api           SheetsAPI
	spreadsheetID string
}

// NewExporter creates an exporter for spreadsheetID
func NewExporter(api SheetsAPI, spreadsheetID string) *Exporter {
	return &Exporter{api: api, spreadsheetID: spreadsheetID}
}

// LedgerSheetName names the export tab for one result set: the player label,
// the sort direction and the time anchor. Rows are numbered within a result
// set, so each filter needs its own tab.
func LedgerSheetName(label string, query filter.Query) string {
	return fmt.Sprintf("Ledger - %s - %s %s", label, query.Sort.Label(), query.TimeAnchor.UTC().Format(anchorLayout))
}

// ChartSheetName names the export tab for a chart month
func ChartSheetName(year, month int) string {
	return fmt.Sprintf("Server - %04d-%02d", year, month)
}

// ExportTransactions appends the rows not yet present in sheetName.
// Rows are matched by their # column, so exporting again after loading more
// pages only appends the new rows. It returns the number of rows written.
func (e *Exporter) ExportTransactions(ctx context.Context, sheetName string, rows []processing.TransactionRow) (int, error) {
	if err := e.ensureSheet(ctx, sheetName, ledgerHeader); err != nil {
		return 0, err
	}

	lastIndex, err := e.lastExportedIndex(ctx, sheetName)
	if err != nil {
		return 0, err
	}

	var values [][]interface{}
	for _, row := range rows {
		if row.Index <= lastIndex {
			continue
		}
		values = append(values, []interface{}{
			row.Index,
			row.PlayerName,
			row.PlayerID,
			exportTime(row.Time),
			row.Cause,
			row.Amount,
			row.Balance,
		})
	}

	if len(values) == 0 {
		log.Debug().Str("sheet_name", sheetName).Int("last_index", lastIndex).Msg("Ledger export already up to date")
		return 0, nil
	}

	if err := e.api.EnsureSheetCapacity(ctx, e.spreadsheetID, sheetName, lastIndex+len(values)+1, ledgerColumns); err != nil {
		return 0, err
	}
	if err := e.api.AppendRows(ctx, e.spreadsheetID, a1Range(sheetName, "A:G"), values); err != nil {
		return 0, err
	}

	log.Info().
		Str("sheet_name", sheetName).
		Int("rows_written", len(values)).
		Int("previous_last_index", lastIndex).
		Msg("Exported transactions")
	return len(values), nil
}

// ExportServerChart replaces the contents of sheetName with samples
func (e *Exporter) ExportServerChart(ctx context.Context, sheetName string, samples []app.ServerSample) error {
	if err := e.ensureSheet(ctx, sheetName, chartHeader); err != nil {
		return err
	}

	if err := e.api.ClearRange(ctx, e.spreadsheetID, a1Range(sheetName, "A2:C")); err != nil {
		return err
	}
	if len(samples) == 0 {
		return nil
	}

	values := make([][]interface{}, len(samples))
	for i, s := range samples {
		values[i] = []interface{}{exportTime(s.Date), s.NumPlayersTracked, s.Balance}
	}

	if err := e.api.EnsureSheetCapacity(ctx, e.spreadsheetID, sheetName, len(values)+1, chartColumns); err != nil {
		return err
	}
	dataRange := a1Range(sheetName, fmt.Sprintf("A2:C%d", len(values)+1))
	if err := e.api.UpdateRange(ctx, e.spreadsheetID, dataRange, values); err != nil {
		return err
	}

	log.Info().
		Str("sheet_name", sheetName).
		Int("samples", len(samples)).
		Msg("Exported server chart")
	return nil
}

// ensureSheet creates sheetName with header if it does not exist yet
func (e *Exporter) ensureSheet(ctx context.Context, sheetName string, header []interface{}) error {
	exists, err := e.api.SheetExists(ctx, e.spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := e.api.CreateSheet(ctx, e.spreadsheetID, sheetName); err != nil {
		return err
	}

	headerRange := a1Range(sheetName, fmt.Sprintf("A1:%s1", columnLetter(len(header))))
	if err := e.api.UpdateRange(ctx, e.spreadsheetID, headerRange, [][]interface{}{header}); err != nil {
		return err
	}

	log.Debug().Str("sheet_name", sheetName).Msg("Created export sheet")
	return nil
}

// lastExportedIndex returns the largest # value already in sheetName
func (e *Exporter) lastExportedIndex(ctx context.Context, sheetName string) (int, error) {
	values, err := e.api.ReadSheet(ctx, e.spreadsheetID, a1Range(sheetName, "A2:A"))
	if err != nil {
		return 0, err
	}

	last := 0
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		cell := NewCell(row[0])
		if cell.IsEmpty() {
			continue
		}
		last = max(last, cell.Int())
	}
	return last, nil
}

// a1Range quotes sheetName for A1 notation, doubling embedded quotes
func a1Range(sheetName, cells string) string {
	return "'" + strings.ReplaceAll(sheetName, "'", "''") + "'!" + cells
}

// columnLetter converts a 1-based column number to its A1 letter (1-26)
func columnLetter(n int) string {
	return string(rune('A' + n - 1))
}

// exportTime is the timestamp format written to sheets
func exportTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
