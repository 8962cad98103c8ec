package processing

import (
	"context"
	"fmt"
	"sync"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/config"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// PlayerDirectory maps player ids to display names for the caller's session.
// It is populated once; concurrent first callers share one request.
type PlayerDirectory struct {
	source  PlayerSourceInterface
	session app.Session
	group   singleflight.Group

	mu      sync.RWMutex
	loaded  bool
	players []app.PlayerID
	names   map[string]string
}

// NewPlayerDirectory creates an empty directory for session
func NewPlayerDirectory(source PlayerSourceInterface, session app.Session) *PlayerDirectory {
	return &PlayerDirectory{
		source:  source,
		session: session,
		names:   make(map[string]string),
	}
}

// FilterAuthorizedPlayers returns the players session may see, preserving
// server order. Callers without view-all only see themselves.
func FilterAuthorizedPlayers(players []app.PlayerID, session app.Session) []app.PlayerID {
	if session.CanViewAllTransactions() {
		return append([]app.PlayerID(nil), players...)
	}

	var visible []app.PlayerID
	for _, p := range players {
		if p.ID == session.PlayerID() {
			visible = append(visible, p)
		}
	}
	return visible
}

// Load fetches the directory if it has not been fetched yet
func (d *PlayerDirectory) Load(ctx context.Context) error {
	d.mu.RLock()
	loaded := d.loaded
	d.mu.RUnlock()
	if loaded {
		return nil
	}

	_, err, shared := d.group.Do("player-ids", func() (interface{}, error) {
		d.mu.RLock()
		loaded := d.loaded
		d.mu.RUnlock()
		if loaded {
			return nil, nil
		}

		fetchCtx, cancel := context.WithTimeout(ctx, config.DirectoryFetchTimeout)
		defer cancel()

		players, err := d.source.GetPlayerIDs(fetchCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to load player directory: %w", err)
		}

		visible := FilterAuthorizedPlayers(players, d.session)
		names := make(map[string]string, len(visible))
		for _, p := range visible {
			names[p.ID] = p.Name
		}

		d.mu.Lock()
		d.players = visible
		d.names = names
		d.loaded = true
		d.mu.Unlock()

		log.Debug().
			Int("players_total", len(players)).
			Int("players_visible", len(visible)).
			Msg("Loaded player directory")
		return nil, nil
	})

	if shared {
		log.Debug().Msg("Player directory load shared with a concurrent caller")
	}
	return err
}

// Loaded reports whether the directory has been populated
func (d *PlayerDirectory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Players returns the visible players in server order
func (d *PlayerDirectory) Players() []app.PlayerID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]app.PlayerID(nil), d.players...)
}

// Lookup returns the display name for id
func (d *PlayerDirectory) Lookup(id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.names[id]
	return name, ok
}

// DisplayName returns the display name for id, or id itself when unknown
func (d *PlayerDirectory) DisplayName(id string) string {
	if name, ok := d.Lookup(id); ok && name != "" {
		return name
	}
	return id
}
