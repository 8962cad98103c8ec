package mocks

import (
	"context"
	"sync"
)

// MockSheetsClient is a test double for sheets.Client. It satisfies
// sheets.SheetsAPI structurally.
type MockSheetsClient struct {
	mu sync.Mutex

	// Responses to return. ReadSheetResponses is keyed by range and takes
	// precedence over ReadSheetResponse. Sheets created through the mock
	// exist afterwards regardless of SheetExistsResponse.
	ReadSheetResponse   [][]interface{}
	ReadSheetResponses  map[string][][]interface{}
	SheetExistsResponse bool

	// Errors to return
	ReadSheetError           error
	UpdateRangeError         error
	ClearRangeError          error
	AppendRowsError          error
	CreateSheetError         error
	SheetExistsError         error
	EnsureSheetCapacityError error

	// Call tracking
	CreatedSheets  []string
	ReadRanges     []string
	ClearedRanges  []string
	UpdatedRanges  []RangeWrite
	AppendedRanges []RangeWrite

	EnsureSheetCapacityCalledWith struct {
		SheetName    string
		RequiredRows int
		RequiredCols int
	}
}

// RangeWrite records one UpdateRange or AppendRows call
type RangeWrite struct {
	SpreadsheetID string
	Range         string
	Values        [][]interface{}
}

// NewMockSheetsClient creates a new mock sheets client
func NewMockSheetsClient() *MockSheetsClient {
	return &MockSheetsClient{}
}

func (m *MockSheetsClient) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadRanges = append(m.ReadRanges, range_)
	if values, ok := m.ReadSheetResponses[range_]; ok {
		return values, m.ReadSheetError
	}
	return m.ReadSheetResponse, m.ReadSheetError
}

func (m *MockSheetsClient) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateRangeError != nil {
		return m.UpdateRangeError
	}
	m.UpdatedRanges = append(m.UpdatedRanges, RangeWrite{SpreadsheetID: spreadsheetID, Range: range_, Values: values})
	return nil
}

func (m *MockSheetsClient) ClearRange(ctx context.Context, spreadsheetID, range_ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearedRanges = append(m.ClearedRanges, range_)
	return m.ClearRangeError
}

func (m *MockSheetsClient) AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendRowsError != nil {
		return m.AppendRowsError
	}
	m.AppendedRanges = append(m.AppendedRanges, RangeWrite{SpreadsheetID: spreadsheetID, Range: range_, Values: rows})
	return nil
}

func (m *MockSheetsClient) CreateSheet(ctx context.Context, spreadsheetID, sheetName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateSheetError != nil {
		return m.CreateSheetError
	}
	m.CreatedSheets = append(m.CreatedSheets, sheetName)
	return nil
}

func (m *MockSheetsClient) SheetExists(ctx context.Context, spreadsheetID, sheetName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SheetExistsError != nil {
		return false, m.SheetExistsError
	}
	for _, name := range m.CreatedSheets {
		if name == sheetName {
			return true, nil
		}
	}
	return m.SheetExistsResponse, nil
}

func (m *MockSheetsClient) EnsureSheetCapacity(ctx context.Context, spreadsheetID, sheetName string, requiredRows, requiredCols int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnsureSheetCapacityCalledWith.SheetName = sheetName
	m.EnsureSheetCapacityCalledWith.RequiredRows = requiredRows
	m.EnsureSheetCapacityCalledWith.RequiredCols = requiredCols
	return m.EnsureSheetCapacityError
}

// Reset clears all call tracking and responses
func (m *MockSheetsClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReadSheetResponse = nil
	m.ReadSheetResponses = nil
	m.SheetExistsResponse = false

	m.ReadSheetError = nil
	m.UpdateRangeError = nil
	m.ClearRangeError = nil
	m.AppendRowsError = nil
	m.CreateSheetError = nil
	m.SheetExistsError = nil
	m.EnsureSheetCapacityError = nil

	m.CreatedSheets = nil
	m.ReadRanges = nil
	m.ClearedRanges = nil
	m.UpdatedRanges = nil
	m.AppendedRanges = nil
	m.EnsureSheetCapacityCalledWith = struct {
		SheetName    string
		RequiredRows int
		RequiredCols int
	}{}
}
