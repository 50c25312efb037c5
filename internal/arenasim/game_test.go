package arenasim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

func TestGameSnapshotsStayConsistent(t *testing.T) {
	g := NewGame(7, types.Bounds{400, 300}, 6)

	for i := 0; i < 500; i++ {
		snap := g.Step()
		require.Len(t, snap.Scoreboard, 6)

		seen := map[types.PlayerID]bool{}
		for _, s := range snap.Players {
			assert.False(t, seen[s.ID], "tick %d: ship %d listed twice", i, s.ID)
			seen[s.ID] = true
			assert.GreaterOrEqual(t, s.X, 0.0)
			assert.LessOrEqual(t, s.X, 400.0)
		}
		for _, d := range snap.Dead {
			assert.False(t, seen[d.Player.ID], "tick %d: ship %d both alive and dead", i, d.Player.ID)
			seen[d.Player.ID] = true
		}
		assert.Len(t, seen, 6)
		for _, it := range snap.Items {
			assert.True(t, it.ItemType.Valid())
		}
	}
}

func TestGameIsDeterministicPerSeed(t *testing.T) {
	a := NewGame(42, types.Bounds{400, 300}, 3)
	b := NewGame(42, types.Bounds{400, 300}, 3)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Step(), b.Step())
	}
}
