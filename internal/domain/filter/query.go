package filter

import (
	"net/url"
	"strconv"
	"time"
)

// SortDirection orders transactions relative to the time anchor
type SortDirection int

const (
	// Descending returns transactions before the anchor, newest first
	Descending SortDirection = iota
	// Ascending returns transactions after the anchor, oldest first
	Ascending
)

func (d SortDirection) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// Label is the wording the dashboard uses for the direction
func (d SortDirection) Label() string {
	if d == Ascending {
		return "After"
	}
	return "Before"
}

// ParseSortDirection accepts "asc"/"after" and "desc"/"before"
func ParseSortDirection(s string) (SortDirection, bool) {
	switch s {
	case "asc", "after", "ascending":
		return Ascending, true
	case "desc", "before", "descending":
		return Descending, true
	}
	return Descending, false
}

// Query is the canonical /transactions request
type Query struct {
	Player     PlayerSelector
	Page       int
	Sort       SortDirection
	TimeAnchor time.Time
}

// SameFilter reports whether q and other select the same result set,
// ignoring the page cursor
func (q Query) SameFilter(other Query) bool {
	return q.Player == other.Player &&
		q.Sort == other.Sort &&
		q.TimeAnchor.Equal(other.TimeAnchor)
}

// Values encodes the query as /transactions query parameters.
// playerId is omitted for AllPlayers.
func (q Query) Values() url.Values {
	v := url.Values{}
	if id, ok := q.Player.PlayerID(); ok {
		v.Set("playerId", id)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("ascending", strconv.FormatBool(q.Sort == Ascending))
	v.Set("timestamp", strconv.FormatInt(q.TimeAnchor.UnixMilli(), 10))
	return v
}
