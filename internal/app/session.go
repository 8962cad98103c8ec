package app

import (
	"errors"
	"slices"
	"strings"
)

// Capability strings checked against the session before any request is made
const (
	CapViewOwnTransactions = "ledger.transactions.view-own"
	CapViewAllTransactions = "ledger.transactions.view-all"
	CapViewServerChart     = "ledger.server-chart.view"
)

// UnauthorizedMessage is the fixed text shown instead of a view the caller may not see
const UnauthorizedMessage = "Unauthorized to view this page."

// ErrUnauthorized is returned when the session lacks the capability a view requires
var ErrUnauthorized = errors.New("unauthorized")

// Session is the caller identity and capability set. It is a value type and
// is never mutated after construction.
type Session struct {
	playerID     string
	capabilities []string
}

// NewSession creates a session for playerID holding the given capabilities
func NewSession(playerID string, capabilities []string) Session {
	caps := make([]string, 0, len(capabilities))
	for _, c := range capabilities {
		c = strings.TrimSpace(c)
		if c != "" && !slices.Contains(caps, c) {
			caps = append(caps, c)
		}
	}
	return Session{playerID: playerID, capabilities: caps}
}

// ParseCapabilities splits a comma separated capability list
func ParseCapabilities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// PlayerID returns the caller's own player identifier
func (s Session) PlayerID() string {
	return s.playerID
}

// Capabilities returns a copy of the session's capability list
func (s Session) Capabilities() []string {
	return slices.Clone(s.capabilities)
}

// Has reports whether the session holds capability
func (s Session) Has(capability string) bool {
	return slices.Contains(s.capabilities, capability)
}

// CanViewTransactions reports whether the session may open the transactions view at all
func (s Session) CanViewTransactions() bool {
	return s.Has(CapViewOwnTransactions) || s.Has(CapViewAllTransactions)
}

// CanViewAllTransactions reports whether the session may query other players' ledgers
func (s Session) CanViewAllTransactions() bool {
	return s.Has(CapViewAllTransactions)
}

// CanViewServerChart reports whether the session may open the server balance chart
func (s Session) CanViewServerChart() bool {
	return s.Has(CapViewServerChart)
}
