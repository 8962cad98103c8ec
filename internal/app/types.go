package app

import "time"

// Transaction is a single ledger entry from /transactions
type Transaction struct {
	PlayerID  string  `json:"playerId"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"` // epoch milliseconds
	Cause     string  `json:"cause"`
	Balance   float64 `json:"balance"`
}

// Time returns the transaction timestamp as a time.Time
func (t Transaction) Time() time.Time {
	return time.UnixMilli(t.Timestamp)
}

// PageResult represents the response from /transactions.
// TotalCount is the size of the whole result set for the filter, not the page.
type PageResult struct {
	TotalCount   int           `json:"totalCount"`
	Transactions []Transaction `json:"transactions"`
}

// PlayerID represents one entry of the /player-ids response
type PlayerID struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServerSample is one decimated point of the server balance chart
type ServerSample struct {
	Date              time.Time
	NumPlayersTracked int
	Balance           float64
}
