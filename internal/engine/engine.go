package engine

import (
	"slices"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

type EventType string

const (
	EvtPlayerDied        EventType = "PlayerDied"
	EvtPlayerRespawned   EventType = "PlayerRespawned"
	EvtScoreboardChanged EventType = "ScoreboardChanged"
)

type Event struct {
	Type   EventType
	Player types.PlayerID
	Killer types.PlayerID // EvtPlayerDied only; zero when unattributed
}

// State is what the spectator has already shown for the current connection.
// Announced is the dedup ledger: players whose death has been announced and
// who have not been seen respawning since. Seeded holds players that were
// already dead when the connection started; they are never announced, in
// either direction.
type State struct {
	Bootstrapped bool
	Rendered     types.Scoreboard
	Announced    map[types.PlayerID]bool
	Seeded       map[types.PlayerID]bool
}

// Apply diffs snap against s and returns the derived events together with
// the state to use for the next snapshot. s is not modified.
//
// Deaths and respawns are observed only at snapshot granularity: a player
// who dies, respawns and dies again between two snapshots stays dead.
func Apply(s State, snap types.Snapshot) ([]Event, State) {
	next := State{
		Bootstrapped: true,
		Rendered:     s.Rendered,
		Announced:    make(map[types.PlayerID]bool, len(snap.Dead)),
		Seeded:       make(map[types.PlayerID]bool),
	}

	if !s.Bootstrapped {
		// Nothing to compare against yet; whoever is dead at join time died
		// before we were watching.
		next.Rendered = snap.Scoreboard.Clone()
		for _, id := range snap.DeadIDs() {
			next.Seeded[id] = true
		}
		return nil, next
	}

	var events []Event

	dead := make(map[types.PlayerID]bool, len(snap.Dead))
	for _, id := range snap.DeadIDs() {
		dead[id] = true
	}

	respawned := make([]types.PlayerID, 0)
	for id := range s.Announced {
		if !dead[id] {
			respawned = append(respawned, id)
		}
	}
	slices.Sort(respawned)
	for _, id := range respawned {
		events = append(events, Event{Type: EvtPlayerRespawned, Player: id})
	}

	// An empty dead list leaves both sets empty: nobody is dead right now.
	// Seeded players that left the list drop out without a respawn line.
	for _, d := range snap.Dead {
		id := d.Player.ID
		switch {
		case next.Announced[id] || next.Seeded[id]:
			// listed twice in one snapshot
		case s.Seeded[id]:
			next.Seeded[id] = true
		case s.Announced[id]:
			next.Announced[id] = true
		default:
			events = append(events, Event{Type: EvtPlayerDied, Player: id, Killer: d.Killer})
			next.Announced[id] = true
		}
	}

	if !snap.Scoreboard.Equal(s.Rendered) {
		events = append(events, Event{Type: EvtScoreboardChanged})
		next.Rendered = snap.Scoreboard.Clone()
	}

	return events, next
}
