package filter

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"ledger_dashboard/internal/app"

	"github.com/rs/zerolog/log"
)

var (
	// ErrAllPlayersForbidden is returned when a caller without view-all selects every player
	ErrAllPlayersForbidden = errors.New("selecting all players requires " + app.CapViewAllTransactions)
	// ErrPlayerForbidden is returned when a caller without view-all selects another player
	ErrPlayerForbidden = errors.New("selecting another player requires " + app.CapViewAllTransactions)
	// ErrInvalidSelector is returned for the zero PlayerSelector
	ErrInvalidSelector = errors.New("player selector is empty")
)

// Controller owns the user-selectable transaction filters and the page cursor.
// Changing any filter resets the cursor to 0 and notifies subscribers;
// moving the cursor with RequestPage does not.
type Controller struct {
	mu        sync.Mutex
	session   app.Session
	player    PlayerSelector
	sort      SortDirection
	anchor    time.Time
	page      int
	listeners []func(Query)
}

// NewController creates a controller for session anchored at anchor.
// Callers with view-all default to every player; everyone else is pinned to
// their own player id.
func NewController(session app.Session, anchor time.Time) (*Controller, error) {
	if !session.CanViewTransactions() {
		return nil, fmt.Errorf("transactions view: %w", app.ErrUnauthorized)
	}

	player := Player(session.PlayerID())
	if session.CanViewAllTransactions() {
		player = AllPlayers()
	} else if session.PlayerID() == "" {
		return nil, fmt.Errorf("session has no player id: %w", app.ErrUnauthorized)
	}

	return &Controller{
		session: session,
		player:  player,
		sort:    Descending,
		anchor:  anchor,
	}, nil
}

// CanViewAll reports whether the "all players" choice should be offered
func (c *Controller) CanViewAll() bool {
	return c.session.CanViewAllTransactions()
}

// Subscribe registers fn to run after every filter change.
// fn receives the new query and runs without the controller's lock held.
func (c *Controller) Subscribe(fn func(Query)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// SetPlayerFilter selects whose transactions to show. The selection is
// rejected, leaving the current one in place, when the caller lacks view-all
// and asks for anyone but themselves.
func (c *Controller) SetPlayerFilter(selector PlayerSelector) error {
	if !selector.valid() {
		return ErrInvalidSelector
	}
	if !c.session.CanViewAllTransactions() {
		if selector.IsAll() {
			log.Warn().Str("player_id", c.session.PlayerID()).Msg("Rejected all-players filter without view-all")
			return ErrAllPlayersForbidden
		}
		if id, _ := selector.PlayerID(); id != c.session.PlayerID() {
			log.Warn().
				Str("player_id", c.session.PlayerID()).
				Str("requested_player_id", id).
				Msg("Rejected foreign player filter without view-all")
			return ErrPlayerForbidden
		}
	}

	c.update(func() bool {
		if c.player == selector {
			return false
		}
		c.player = selector
		return true
	})
	return nil
}

// SetSortDirection changes the sort direction relative to the time anchor
func (c *Controller) SetSortDirection(dir SortDirection) {
	c.update(func() bool {
		if c.sort == dir {
			return false
		}
		c.sort = dir
		return true
	})
}

// SetTimeAnchor moves the instant the ledger is read from
func (c *Controller) SetTimeAnchor(anchor time.Time) {
	c.update(func() bool {
		if c.anchor.Equal(anchor) {
			return false
		}
		c.anchor = anchor
		return true
	})
}

// RequestPage moves the page cursor without signalling a filter change
func (c *Controller) RequestPage(page int) {
	if page < 0 {
		page = 0
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
}

// BuildQuery returns the canonical query for the current state
func (c *Controller) BuildQuery() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queryLocked()
}

func (c *Controller) queryLocked() Query {
	return Query{
		Player:     c.player,
		Page:       c.page,
		Sort:       c.sort,
		TimeAnchor: c.anchor,
	}
}

// update applies mutate under the lock; if it reports a change the page is
// reset and listeners are notified after unlocking.
func (c *Controller) update(mutate func() bool) {
	c.mu.Lock()
	if !mutate() {
		c.mu.Unlock()
		return
	}
	c.page = 0
	query := c.queryLocked()
	listeners := append([]func(Query){}, c.listeners...)
	c.mu.Unlock()

	log.Debug().
		Str("player", query.Player.String()).
		Str("sort", query.Sort.String()).
		Time("anchor", query.TimeAnchor).
		Msg("Transaction filter changed")

	for _, fn := range listeners {
		fn(query)
	}
}
