package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueInputOption = "USER_ENTERED"
	// Headroom added when an export outgrows its sheet; ledger exports grow a page at a time
	rowHeadroom = 500
)

// Client implements SheetsAPI on top of the Google Sheets API
type Client struct {
	service *sheets.Service
}

var _ SheetsAPI = (*Client)(nil)

// NewClient creates a Sheets client from a service account credentials file.
// Extra options are passed through to the API client.
func NewClient(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

// ReadSheet reads values from the specified sheet range
func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return resp.Values, nil
}

// UpdateRange overwrites the specified sheet range
func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, &sheets.ValueRange{Values: values}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", range_, err)
	}

	return nil
}

// ClearRange clears all values in the specified sheet range
func (c *Client) ClearRange(ctx context.Context, spreadsheetID, range_ string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, range_, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear range %s: %w", range_, err)
	}

	return nil
}

// AppendRows appends rows after the last row of the specified range
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, range_, &sheets.ValueRange{Values: rows}).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows to %s: %w", range_, err)
	}

	return nil
}

// CreateSheet adds a tab named sheetName
func (c *Client) CreateSheet(ctx context.Context, spreadsheetID, sheetName string) error {
	return c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: sheetName},
		},
	})
}

// SheetExists checks if a sheet with the given name exists in the spreadsheet
func (c *Client) SheetExists(ctx context.Context, spreadsheetID, sheetName string) (bool, error) {
	sheet, err := c.findSheet(ctx, spreadsheetID, sheetName)
	if err != nil {
		return false, err
	}
	return sheet != nil, nil
}

// EnsureSheetCapacity grows the sheet, with headroom, when it is smaller than
// requiredRows x requiredCols
func (c *Client) EnsureSheetCapacity(ctx context.Context, spreadsheetID, sheetName string, requiredRows, requiredCols int) error {
	sheet, err := c.findSheet(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	if sheet == nil {
		return fmt.Errorf("sheet %s not found", sheetName)
	}

	grid := sheet.Properties.GridProperties
	rows, cols := int(grid.RowCount), int(grid.ColumnCount)
	newRows, newCols, grow := growGrid(rows, cols, requiredRows, requiredCols)
	if !grow {
		return nil
	}

	log.Debug().
		Str("sheet_name", sheetName).
		Int("current_rows", rows).
		Int("current_cols", cols).
		Int("new_rows", newRows).
		Int("new_cols", newCols).
		Msg("Expanding export sheet capacity")

	return c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: sheet.Properties.SheetId,
				GridProperties: &sheets.GridProperties{
					RowCount:    int64(newRows),
					ColumnCount: int64(newCols),
				},
			},
			Fields: "gridProperties.rowCount,gridProperties.columnCount",
		},
	})
}

func (c *Client) findSheet(ctx context.Context, spreadsheetID, sheetName string) (*sheets.Sheet, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			return sheet, nil
		}
	}
	return nil, nil
}

func (c *Client) batchUpdate(ctx context.Context, spreadsheetID string, req *sheets.Request) error {
	_, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{req},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update spreadsheet %s: %w", spreadsheetID, err)
	}
	return nil
}

// growGrid returns the grid size needed to hold requiredRows x requiredCols.
// Rows grow with rowHeadroom so appends do not resize on every export.
func growGrid(rows, cols, requiredRows, requiredCols int) (newRows, newCols int, grow bool) {
	if requiredRows <= rows && requiredCols <= cols {
		return rows, cols, false
	}

	newRows = rows
	if requiredRows > rows {
		newRows = requiredRows + rowHeadroom
	}
	return newRows, max(cols, requiredCols), true
}
