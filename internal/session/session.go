// Package session holds what one connection to the game server has taught
// the spectator so far. A reconnect starts a new Session.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DoyleJ11/arena-spectator/internal/engine"
	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

var ErrMalformedPayload = errors.New("malformed payload")

type UpdateKind string

const (
	UpdateIgnored   UpdateKind = "ignored"
	UpdateTeamNames UpdateKind = "teamnames"
	UpdateState     UpdateKind = "state"
	UpdateID        UpdateKind = "id"
)

// Update describes what one inbound message changed.
type Update struct {
	Kind     UpdateKind
	Snapshot types.Snapshot
	Events   []engine.Event
	// First is set for the snapshot that established the baseline.
	First bool
}

func (u Update) ScoreboardChanged() bool {
	return engine.ScoreboardChanged(u.Events)
}

type Session struct {
	ID        uuid.UUID
	StartedAt time.Time
	Names     types.TeamNames
	Engine    engine.State
	// SelfID is the player id the server assigned, if it sent one.
	SelfID types.PlayerID
	// Ticks counts applied state snapshots.
	Ticks int
}

func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		StartedAt: now,
		Names:     types.TeamNames{},
		Engine:    engine.NewState(),
	}
}

// Apply folds one envelope into the session.
func (s *Session) Apply(env types.Envelope) (Update, error) {
	switch env.E {
	case types.EventTeamNames:
		names, err := types.DecodePayload[types.TeamNames](env)
		if err != nil {
			return Update{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		s.Names = names
		return Update{Kind: UpdateTeamNames}, nil

	case types.EventState:
		snap, err := types.DecodePayload[types.Snapshot](env)
		if err != nil {
			return Update{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		first := !s.Engine.Bootstrapped
		events, next := engine.Apply(s.Engine, snap)
		s.Engine = next
		s.Ticks++
		return Update{Kind: UpdateState, Snapshot: snap, Events: events, First: first}, nil

	case types.EventID:
		id, err := types.DecodePayload[types.PlayerID](env)
		if err != nil {
			return Update{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		s.SelfID = id
		return Update{Kind: UpdateID}, nil

	default:
		return Update{Kind: UpdateIgnored}, nil
	}
}
