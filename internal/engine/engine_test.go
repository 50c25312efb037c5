package engine

import (
	"reflect"
	"testing"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

func dead(ids ...types.PlayerID) []types.DeathRecord {
	out := make([]types.DeathRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, types.DeathRecord{Player: types.Ship{ID: id}})
	}
	return out
}

func snap(sb types.Scoreboard, ids ...types.PlayerID) types.Snapshot {
	return types.Snapshot{Bounds: types.Bounds{1000, 700}, Dead: dead(ids...), Scoreboard: sb}
}

func countEvents(events []Event, eventType EventType, player types.PlayerID) int {
	n := 0
	for _, event := range events {
		if event.Type == eventType && event.Player == player {
			n++
		}
	}
	return n
}

// bootstrapped returns a state that has already seen one snapshot.
func bootstrapped(t *testing.T, first types.Snapshot) State {
	t.Helper()
	events, s := Apply(NewState(), first)
	if len(events) != 0 {
		t.Fatalf("bootstrap: want no events, got %+v", events)
	}
	return s
}

func TestScenario_DieStayDeadRespawn(t *testing.T) {
	s := NewState()

	// 1) baseline
	events, s := Apply(s, snap(types.Scoreboard{7: 0}))
	if len(events) != 0 {
		t.Fatalf("snapshot 1: want no events, got %+v", events)
	}
	if !s.Bootstrapped || !s.Rendered.Equal(types.Scoreboard{7: 0}) {
		t.Fatalf("snapshot 1: baseline not recorded: %+v", s)
	}

	// 2) player 7 dies
	events, s = Apply(s, snap(types.Scoreboard{7: 0}, 7))
	want := []Event{{Type: EvtPlayerDied, Player: 7}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("snapshot 2: got %+v, want %+v", events, want)
	}

	// 3) identical payload
	events, s = Apply(s, snap(types.Scoreboard{7: 0}, 7))
	if len(events) != 0 {
		t.Fatalf("snapshot 3: want no events, got %+v", events)
	}

	// 4) respawn + score change
	events, s = Apply(s, snap(types.Scoreboard{7: 1}))
	want = []Event{{Type: EvtPlayerRespawned, Player: 7}, {Type: EvtScoreboardChanged}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("snapshot 4: got %+v, want %+v", events, want)
	}
	if len(s.Announced) != 0 {
		t.Fatalf("snapshot 4: ledger should be empty, got %v", s.Announced)
	}
}

func TestNoDuplicateDeathEvents(t *testing.T) {
	s := bootstrapped(t, snap(types.Scoreboard{}))

	total := 0
	for i := 0; i < 25; i++ {
		var events []Event
		events, s = Apply(s, snap(types.Scoreboard{}, 3, 4))
		total += countEvents(events, EvtPlayerDied, 3)
		if c := countEvents(events, EvtPlayerDied, 4); i > 0 && c != 0 {
			t.Fatalf("tick %d: player 4 announced again", i)
		}
	}
	if total != 1 {
		t.Fatalf("want exactly one death for player 3, got %d", total)
	}
}

func TestRespawnDetection(t *testing.T) {
	cases := []struct {
		name      string
		before    []types.PlayerID
		after     []types.PlayerID
		respawned []types.PlayerID
		ledger    []types.PlayerID
	}{
		{
			name:      "one of two respawns",
			before:    []types.PlayerID{1, 2},
			after:     []types.PlayerID{2},
			respawned: []types.PlayerID{1},
			ledger:    []types.PlayerID{2},
		},
		{
			name:      "respawn while another dies",
			before:    []types.PlayerID{5},
			after:     []types.PlayerID{6},
			respawned: []types.PlayerID{5},
			ledger:    []types.PlayerID{6},
		},
		{
			name:      "empty dead list respawns everybody",
			before:    []types.PlayerID{9, 3, 8},
			after:     nil,
			respawned: []types.PlayerID{3, 8, 9},
			ledger:    nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := bootstrapped(t, snap(types.Scoreboard{}))
			_, s = Apply(s, snap(types.Scoreboard{}, tc.before...))

			events, s := Apply(s, snap(types.Scoreboard{}, tc.after...))

			var got []types.PlayerID
			for _, e := range events {
				if e.Type == EvtPlayerRespawned {
					got = append(got, e.Player)
				}
			}
			if !reflect.DeepEqual(got, tc.respawned) {
				t.Fatalf("respawned: got %v, want %v", got, tc.respawned)
			}
			if len(s.Announced) != len(tc.ledger) {
				t.Fatalf("ledger: got %v, want %v", s.Announced, tc.ledger)
			}
			for _, id := range tc.ledger {
				if !s.Announced[id] {
					t.Fatalf("ledger: missing %d in %v", id, s.Announced)
				}
			}
		})
	}
}

func TestEmptyDeadListAlwaysResets(t *testing.T) {
	ledgers := []map[types.PlayerID]bool{
		nil,
		{},
		{1: true},
		{1: true, 2: true, 300: true},
	}
	for _, ledger := range ledgers {
		s := State{Bootstrapped: true, Rendered: types.Scoreboard{}, Announced: ledger}
		_, next := Apply(s, snap(types.Scoreboard{}))
		if len(next.Announced) != 0 {
			t.Fatalf("ledger %v: want empty after reset, got %v", ledger, next.Announced)
		}
		_, again := Apply(next, snap(types.Scoreboard{}))
		if len(again.Announced) != 0 {
			t.Fatalf("second reset not idempotent: %v", again.Announced)
		}
	}
}

func TestScoreboardChangeIsStructural(t *testing.T) {
	base := types.Scoreboard{1: 2, 2: 0}
	cases := []struct {
		name    string
		next    types.Scoreboard
		changed bool
	}{
		{name: "identical", next: types.Scoreboard{1: 2, 2: 0}, changed: false},
		{name: "value changed", next: types.Scoreboard{1: 3, 2: 0}, changed: true},
		{name: "key added", next: types.Scoreboard{1: 2, 2: 0, 3: 0}, changed: true},
		{name: "key removed", next: types.Scoreboard{1: 2}, changed: true},
		{name: "same total", next: types.Scoreboard{1: 1, 2: 1}, changed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := bootstrapped(t, snap(base))
			events, next := Apply(s, snap(tc.next))
			if ScoreboardChanged(events) != tc.changed {
				t.Fatalf("changed: got %v, want %v", ScoreboardChanged(events), tc.changed)
			}
			if !next.Rendered.Equal(tc.next) {
				t.Fatalf("rendered: got %v, want %v", next.Rendered, tc.next)
			}
		})
	}
}

func TestBootstrapHasNoSpuriousEvents(t *testing.T) {
	events, s := Apply(NewState(), snap(types.Scoreboard{1: 4, 2: 7}, 2))
	if len(events) != 0 {
		t.Fatalf("want no events, got %+v", events)
	}

	// Player 2 was dead before we joined; staying dead is not news.
	events, _ = Apply(s, snap(types.Scoreboard{1: 4, 2: 7}, 2))
	if len(events) != 0 {
		t.Fatalf("want no events on unchanged second snapshot, got %+v", events)
	}
}

func TestDeadAtJoinLeavesSilently(t *testing.T) {
	s := bootstrapped(t, snap(types.Scoreboard{2: 0}, 2))
	if len(s.Announced) != 0 || !s.Seeded[2] {
		t.Fatalf("join-time dead must be seeded, not announced: %+v", s)
	}

	events, s := Apply(s, snap(types.Scoreboard{2: 0}, 2))
	if len(events) != 0 {
		t.Fatalf("still dead: want no events, got %+v", events)
	}

	// Its death was never announced, so neither is the respawn.
	events, s = Apply(s, snap(types.Scoreboard{2: 0}))
	if len(events) != 0 {
		t.Fatalf("left dead list: want no events, got %+v", events)
	}
	if len(s.Seeded) != 0 || len(s.Announced) != 0 {
		t.Fatalf("want both sets empty, got %+v", s)
	}

	// The next death is a fresh one and gets the full cycle.
	events, s = Apply(s, snap(types.Scoreboard{2: 0}, 2))
	if countEvents(events, EvtPlayerDied, 2) != 1 {
		t.Fatalf("second death: want died(2), got %+v", events)
	}
	events, _ = Apply(s, snap(types.Scoreboard{2: 0}))
	if countEvents(events, EvtPlayerRespawned, 2) != 1 {
		t.Fatalf("second respawn: want respawned(2), got %+v", events)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := bootstrapped(t, snap(types.Scoreboard{1: 0}))
	_, s = Apply(s, snap(types.Scoreboard{1: 0}, 1))

	before := map[types.PlayerID]bool{1: true}
	rendered := s.Rendered
	_, _ = Apply(s, snap(types.Scoreboard{1: 5}, 2))

	if !reflect.DeepEqual(s.Announced, before) {
		t.Fatalf("ledger mutated: %v", s.Announced)
	}
	if rendered[1] != 0 {
		t.Fatalf("rendered scoreboard mutated: %v", rendered)
	}
}

func TestDeathCarriesKiller(t *testing.T) {
	s := bootstrapped(t, snap(types.Scoreboard{}))
	next := snap(types.Scoreboard{})
	next.Dead = []types.DeathRecord{{Player: types.Ship{ID: 4}, Killer: 2}}

	events, _ := Apply(s, next)
	if len(events) != 1 || events[0].Killer != 2 {
		t.Fatalf("want death of 4 by 2, got %+v", events)
	}
}

func TestDuplicateEntriesInOneDeadList(t *testing.T) {
	s := bootstrapped(t, snap(types.Scoreboard{}))
	events, _ := Apply(s, snap(types.Scoreboard{}, 4, 4))
	if countEvents(events, EvtPlayerDied, 4) != 1 {
		t.Fatalf("want one death, got %+v", events)
	}
}
