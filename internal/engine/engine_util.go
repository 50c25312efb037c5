package engine

import (
	"fmt"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

func NewState() State {
	return State{
		Rendered:  types.Scoreboard{},
		Announced: map[types.PlayerID]bool{},
		Seeded:    map[types.PlayerID]bool{},
	}
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// ScoreboardChanged reports whether the leaderboard must be redrawn.
func ScoreboardChanged(events []Event) bool {
	return ContainsEvent(events, EvtScoreboardChanged)
}

// Describe renders the feed line for e, or "" for events that have none.
func Describe(e Event, names types.TeamNames) string {
	switch e.Type {
	case EvtPlayerDied:
		if e.Killer != 0 && e.Killer != e.Player {
			return fmt.Sprintf("%s (%d) was destroyed by %s", names.Name(e.Player), e.Player, names.Name(e.Killer))
		}
		return fmt.Sprintf("%s (%d) died", names.Name(e.Player), e.Player)
	case EvtPlayerRespawned:
		return fmt.Sprintf("%s (%d) respawned", names.Name(e.Player), e.Player)
	default:
		return ""
	}
}
