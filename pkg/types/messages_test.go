package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateFrame = `{"e":"state","data":{
	"bounds":[1000.0,700.0],
	"players":[{"id":7,"angle":1.57,"throttle":0.5,"x":10.9,"y":20.2,"radius":10,"bullet_radius":4,"bullet_speed":500,"bullet_limit":3}],
	"bullets":[{"id":1,"player_id":7,"angle":0,"x":1,"y":2,"radius":4,"speed":500}],
	"items":[{"id":3,"x":5,"y":6,"radius":10,"item_type":"MoreBullet"}],
	"dead":[{"respawn":{"secs_since_epoch":1700000000,"nanos_since_epoch":5},"player":{"id":9,"angle":0,"x":0,"y":0,"radius":10},"killer":7}],
	"scoreboard":{"7":2,"9":0}
}}`

func TestDecodeStateFrame(t *testing.T) {
	env, err := DecodeEnvelope([]byte(stateFrame))
	require.NoError(t, err)
	require.Equal(t, EventState, env.E)

	snap, err := DecodePayload[Snapshot](env)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, snap.Bounds.Width())
	assert.Equal(t, 700.0, snap.Bounds.Height())
	require.Len(t, snap.Players, 1)
	assert.Equal(t, PlayerID(7), snap.Players[0].ID)
	assert.Equal(t, 3, snap.Players[0].BulletLimit)
	assert.Equal(t, PlayerID(7), snap.Bullets[0].PlayerID)
	assert.Equal(t, ItemMoreBullet, snap.Items[0].ItemType)
	assert.True(t, snap.Items[0].ItemType.Valid())
	assert.Equal(t, []PlayerID{9}, snap.DeadIDs())
	assert.Equal(t, PlayerID(7), snap.Dead[0].Killer)
	require.NotNil(t, snap.Dead[0].Respawn)
	assert.Equal(t, int64(1700000000), snap.Dead[0].Respawn.Time().Unix())
	assert.Equal(t, Scoreboard{7: 2, 9: 0}, snap.Scoreboard)
}

func TestDecodeTeamNames(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"e":"teamnames","data":{"7":"red baron","9":"<b>bold</b>"}}`))
	require.NoError(t, err)

	names, err := DecodePayload[TeamNames](env)
	require.NoError(t, err)
	assert.Equal(t, "red baron", names.Name(7))
	assert.Equal(t, "<b>bold</b>", names.Name(9))
	assert.Equal(t, UnknownName, names.Name(42))
}

func TestDecodeRejectsMalformedFrames(t *testing.T) {
	cases := []struct {
		name  string
		frame string
	}{
		{name: "not json", frame: `{"e":"state",`},
		{name: "array envelope", frame: `[1,2,3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(tc.frame))
			require.Error(t, err)
		})
	}

	_, err := DecodeEnvelope(nil)
	require.True(t, errors.Is(err, ErrEmptyFrame))
}

func TestDecodePayloadShapeErrors(t *testing.T) {
	_, err := DecodePayload[Snapshot](Envelope{E: EventState})
	require.True(t, errors.Is(err, ErrEmptyPayload), "got %v", err)

	_, err = DecodePayload[Snapshot](Envelope{E: EventState, Data: []byte(`{"bounds":"wide"}`)})
	require.Error(t, err)
}

func TestScoreboardEqualIsStructural(t *testing.T) {
	base := Scoreboard{1: 3, 2: 0}

	assert.True(t, base.Equal(Scoreboard{2: 0, 1: 3}))
	assert.False(t, base.Equal(Scoreboard{1: 3, 2: 1}), "value change")
	assert.False(t, base.Equal(Scoreboard{1: 3}), "key removed")
	assert.False(t, base.Equal(Scoreboard{1: 3, 2: 0, 3: 0}), "key added")
	assert.False(t, base.Equal(Scoreboard{1: 2, 2: 1}), "same total, different values")

	clone := base.Clone()
	clone[1] = 99
	assert.Equal(t, 3, base[1])
}

func TestEncodeRoundTripsThroughEnvelope(t *testing.T) {
	b, err := Encode(EventTeamNames, TeamNames{1: "one"})
	require.NoError(t, err)

	env, err := DecodeEnvelope(b)
	require.NoError(t, err)
	assert.Equal(t, EventTeamNames, env.E)

	_, err = Encode("", nil)
	require.Error(t, err)
}
