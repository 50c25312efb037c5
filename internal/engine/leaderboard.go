package engine

import (
	"cmp"
	"slices"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

type Standing struct {
	Rank   int            `json:"rank"`
	Player types.PlayerID `json:"player"`
	Score  int            `json:"score"`
}

// Leaderboard orders players by descending score. Equal scores are ordered
// by ascending player ID so the table does not shuffle between redraws.
func Leaderboard(sb types.Scoreboard) []Standing {
	out := make([]Standing, 0, len(sb))
	for id, score := range sb {
		out = append(out, Standing{Player: id, Score: score})
	}
	slices.SortFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
