package filter

import "fmt"

type selectorKind int

const (
	selectSpecific selectorKind = iota
	selectAll
)

// PlayerSelector chooses whose transactions a query returns: one player, or
// every player. The zero value selects no player and is never valid in a query.
type PlayerSelector struct {
	kind selectorKind
	id   string
}

// AllPlayers selects every player's transactions
func AllPlayers() PlayerSelector {
	return PlayerSelector{kind: selectAll}
}

// Player selects a single player's transactions
func Player(id string) PlayerSelector {
	return PlayerSelector{kind: selectSpecific, id: id}
}

// IsAll reports whether the selector covers every player
func (s PlayerSelector) IsAll() bool {
	return s.kind == selectAll
}

// PlayerID returns the selected player and true, or "" and false for AllPlayers
func (s PlayerSelector) PlayerID() (string, bool) {
	if s.kind == selectAll || s.id == "" {
		return "", false
	}
	return s.id, true
}

func (s PlayerSelector) valid() bool {
	return s.kind == selectAll || s.id != ""
}

func (s PlayerSelector) String() string {
	if s.kind == selectAll {
		return "all players"
	}
	return fmt.Sprintf("player %s", s.id)
}
