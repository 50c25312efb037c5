package arenasim

import (
	"math"
	"math/rand/v2"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

const (
	shipRadius   = 10
	bulletRadius = 4
	itemRadius   = 10
	shipSpeed    = 6
	bulletSpeed  = 18
	respawnTicks = 40
)

var itemTypes = []types.ItemType{types.ItemBiggerBullet, types.ItemFasterBullet, types.ItemMoreBullet}

// Game is a toy arena that produces plausible snapshots: ships wander and
// shoot, bullets kill on contact, the dead come back after a while. It is
// not the real game's physics.
type Game struct {
	rng      *rand.Rand
	bounds   types.Bounds
	ships    map[types.PlayerID]*types.Ship
	dead     map[types.PlayerID]*deadShip
	bullets  []types.Bullet
	items    []types.Item
	score    types.Scoreboard
	nextBull types.BulletID
	nextItem types.ItemID
}

type deadShip struct {
	record types.DeathRecord
	ticks  int
}

func NewGame(seed uint64, bounds types.Bounds, players int) *Game {
	g := &Game{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		bounds: bounds,
		ships:  make(map[types.PlayerID]*types.Ship),
		dead:   make(map[types.PlayerID]*deadShip),
		score:  types.Scoreboard{},
	}
	for i := 1; i <= players; i++ {
		id := types.PlayerID(i)
		g.ships[id] = g.spawn(id)
		g.score[id] = 0
	}
	return g
}

func (g *Game) spawn(id types.PlayerID) *types.Ship {
	return &types.Ship{
		ID:          id,
		X:           g.rng.Float64() * g.bounds.Width(),
		Y:           g.rng.Float64() * g.bounds.Height(),
		Angle:       g.rng.Float64() * 2 * math.Pi,
		Radius:      shipRadius,
		BulletLimit: 3,
	}
}

// Step advances one tick and returns the resulting snapshot.
func (g *Game) Step() types.Snapshot {
	for _, id := range g.roster() {
		s, ok := g.ships[id]
		if !ok {
			continue
		}
		s.Angle += (g.rng.Float64() - 0.5) * 0.4
		s.X = clamp(s.X+math.Cos(s.Angle)*shipSpeed, 0, g.bounds.Width())
		s.Y = clamp(s.Y+math.Sin(s.Angle)*shipSpeed, 0, g.bounds.Height())
		if g.rng.IntN(12) == 0 {
			g.nextBull++
			g.bullets = append(g.bullets, types.Bullet{
				ID: g.nextBull, PlayerID: s.ID, X: s.X, Y: s.Y, Angle: s.Angle, Radius: bulletRadius, Speed: bulletSpeed,
			})
		}
	}

	live := g.bullets[:0]
	for _, b := range g.bullets {
		b.X += math.Cos(b.Angle) * bulletSpeed
		b.Y += math.Sin(b.Angle) * bulletSpeed
		if b.X < 0 || b.Y < 0 || b.X > g.bounds.Width() || b.Y > g.bounds.Height() {
			continue
		}
		if victim := g.hit(b); victim != nil {
			g.kill(victim, b.PlayerID)
			continue
		}
		live = append(live, b)
	}
	g.bullets = live

	for _, id := range g.roster() {
		d, ok := g.dead[id]
		if !ok {
			continue
		}
		d.ticks--
		if d.ticks <= 0 {
			delete(g.dead, id)
			g.ships[id] = g.spawn(id)
		}
	}

	if len(g.items) < 5 && g.rng.IntN(20) == 0 {
		g.nextItem++
		g.items = append(g.items, types.Item{
			ID:       g.nextItem,
			X:        g.rng.Float64() * g.bounds.Width(),
			Y:        g.rng.Float64() * g.bounds.Height(),
			Radius:   itemRadius,
			ItemType: itemTypes[g.rng.IntN(len(itemTypes))],
		})
	}

	return g.snapshot()
}

func (g *Game) hit(b types.Bullet) *types.Ship {
	for _, id := range g.roster() {
		s, ok := g.ships[id]
		if !ok || s.ID == b.PlayerID {
			continue
		}
		if math.Hypot(s.X-b.X, s.Y-b.Y) < s.Radius+b.Radius {
			return s
		}
	}
	return nil
}

func (g *Game) kill(victim *types.Ship, killer types.PlayerID) {
	delete(g.ships, victim.ID)
	g.dead[victim.ID] = &deadShip{
		record: types.DeathRecord{Player: *victim, Killer: killer},
		ticks:  respawnTicks,
	}
	g.score[killer]++
}

func (g *Game) snapshot() types.Snapshot {
	snap := types.Snapshot{
		Bounds:     g.bounds,
		Players:    make([]types.Ship, 0, len(g.ships)),
		Bullets:    append([]types.Bullet(nil), g.bullets...),
		Items:      append([]types.Item(nil), g.items...),
		Dead:       make([]types.DeathRecord, 0, len(g.dead)),
		Scoreboard: g.score.Clone(),
	}
	for _, id := range g.roster() {
		if s, ok := g.ships[id]; ok {
			snap.Players = append(snap.Players, *s)
		}
		if d, ok := g.dead[id]; ok {
			snap.Dead = append(snap.Dead, d.record)
		}
	}
	return snap
}

// roster lists every player ID in ascending order.
func (g *Game) roster() []types.PlayerID {
	ids := make([]types.PlayerID, 0, len(g.score))
	for id := types.PlayerID(1); int(id) <= len(g.score); id++ {
		ids = append(ids, id)
	}
	return ids
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
