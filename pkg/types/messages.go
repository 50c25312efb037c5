package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Server -> Spectator (the spectator sends nothing)
//
// Every frame is a JSON envelope { "e": string, "data": any }.
//
// teamnames:
//   data: { [player_id]: string }   // replaces the roster wholesale
//
// state:
//   data: Snapshot
//     bounds:     [width, height]
//     players:    Ship[]
//     bullets:    Bullet[]
//     items:      Item[]            // item_type: BiggerBullet | FasterBullet | MoreBullet
//     dead:       { player: Ship, killer?: number, respawn?: SystemTime }[]
//     scoreboard: { [player_id]: number }
//
// id:
//   data: number                    // player id assigned to a playing client
//
// Any other "e" is ignored.

const (
	EventTeamNames = "teamnames"
	EventState     = "state"
	EventID        = "id"
)

var ErrEmptyFrame = errors.New("empty frame")
var ErrEmptyPayload = errors.New("empty payload")

type Envelope struct {
	E    string          `json:"e"`
	Data json.RawMessage `json:"data"`
}

func Encode(e string, payload any) ([]byte, error) {
	if e == "" {
		return nil, fmt.Errorf("encode envelope: missing event name")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %q payload: %w", e, err)
	}
	return json.Marshal(Envelope{E: e, Data: data})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, fmt.Errorf("%q: %w", env.E, ErrEmptyPayload)
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode %q payload: %w", env.E, err)
	}
	return out, nil
}
