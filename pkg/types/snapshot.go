package types

import (
	"maps"
	"time"
)

type PlayerID uint32

type BulletID uint32

type ItemID uint32

// Bounds is the arena size, sent as a [width, height] tuple.
type Bounds [2]float64

func (b Bounds) Width() float64  { return b[0] }
func (b Bounds) Height() float64 { return b[1] }

type Ship struct {
	ID     PlayerID `json:"id"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Angle  float64  `json:"angle"` // radians
	Radius float64  `json:"radius"`

	// Only set by servers that expose ship loadout.
	Throttle     float64 `json:"throttle,omitempty"`
	BulletRadius float64 `json:"bullet_radius,omitempty"`
	BulletSpeed  float64 `json:"bullet_speed,omitempty"`
	BulletLimit  int     `json:"bullet_limit,omitempty"`
}

type Bullet struct {
	ID       BulletID `json:"id"`
	PlayerID PlayerID `json:"player_id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Angle    float64  `json:"angle"`
	Radius   float64  `json:"radius"`
	Speed    float64  `json:"speed,omitempty"`
}

type ItemType string

const (
	ItemBiggerBullet ItemType = "BiggerBullet"
	ItemFasterBullet ItemType = "FasterBullet"
	ItemMoreBullet   ItemType = "MoreBullet"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemBiggerBullet, ItemFasterBullet, ItemMoreBullet:
		return true
	}
	return false
}

type Item struct {
	ID       ItemID   `json:"id,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Radius   float64  `json:"radius"`
	ItemType ItemType `json:"item_type"`
}

// SystemTime mirrors the server's serialized wall clock.
type SystemTime struct {
	Secs  int64 `json:"secs_since_epoch"`
	Nanos int64 `json:"nanos_since_epoch"`
}

func (t SystemTime) Time() time.Time { return time.Unix(t.Secs, t.Nanos) }

// DeathRecord is one entry of a snapshot's dead list. Killer is zero when
// the server did not attribute the death.
type DeathRecord struct {
	Player  Ship        `json:"player"`
	Killer  PlayerID    `json:"killer,omitempty"`
	Respawn *SystemTime `json:"respawn,omitempty"`
}

type Scoreboard map[PlayerID]int

// Equal reports structural equality: same keys, same values.
func (s Scoreboard) Equal(other Scoreboard) bool {
	return maps.Equal(s, other)
}

func (s Scoreboard) Clone() Scoreboard {
	out := make(Scoreboard, len(s))
	maps.Copy(out, s)
	return out
}

// Snapshot is one complete, self-contained description of the arena at a
// server tick. Every snapshot replaces the previous one wholesale.
type Snapshot struct {
	Bounds     Bounds        `json:"bounds"`
	Players    []Ship        `json:"players"`
	Bullets    []Bullet      `json:"bullets"`
	Items      []Item        `json:"items"`
	Dead       []DeathRecord `json:"dead"`
	Scoreboard Scoreboard    `json:"scoreboard"`
}

// DeadIDs returns the player IDs of the dead list in wire order.
func (s Snapshot) DeadIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(s.Dead))
	for _, d := range s.Dead {
		ids = append(ids, d.Player.ID)
	}
	return ids
}

const UnknownName = "?"

type TeamNames map[PlayerID]string

// Name returns the display name for id, or UnknownName when the roster has
// no entry for it.
func (n TeamNames) Name(id PlayerID) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return UnknownName
}

func (n TeamNames) Clone() TeamNames {
	out := make(TeamNames, len(n))
	maps.Copy(out, n)
	return out
}
