package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/arena-spectator/internal/engine"
	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

func env(e, data string) types.Envelope {
	return types.Envelope{E: e, Data: json.RawMessage(data)}
}

func TestSessionsGetDistinctIDs(t *testing.T) {
	a, b := New(time.Now()), New(time.Now())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTeamNamesReplaceWholesale(t *testing.T) {
	s := New(time.Now())

	_, err := s.Apply(env(types.EventTeamNames, `{"1":"one","2":"two"}`))
	require.NoError(t, err)
	_, err = s.Apply(env(types.EventTeamNames, `{"3":"three"}`))
	require.NoError(t, err)

	assert.Equal(t, types.TeamNames{3: "three"}, s.Names)
}

func TestStateRunsDiffEngine(t *testing.T) {
	s := New(time.Now())

	u, err := s.Apply(env(types.EventState, `{"bounds":[10,10],"players":[],"bullets":[],"items":[],"dead":[],"scoreboard":{"7":0}}`))
	require.NoError(t, err)
	assert.Equal(t, UpdateState, u.Kind)
	assert.True(t, u.First)
	assert.Empty(t, u.Events)
	assert.False(t, u.ScoreboardChanged())

	u, err = s.Apply(env(types.EventState, `{"bounds":[10,10],"players":[],"bullets":[],"items":[],"dead":[{"player":{"id":7}}],"scoreboard":{"7":0}}`))
	require.NoError(t, err)
	assert.False(t, u.First)
	assert.Equal(t, []engine.Event{{Type: engine.EvtPlayerDied, Player: 7}}, u.Events)
	assert.Equal(t, 2, s.Ticks)
}

func TestMalformedPayloadsLeaveSessionUntouched(t *testing.T) {
	s := New(time.Now())
	_, err := s.Apply(env(types.EventTeamNames, `{"1":"one"}`))
	require.NoError(t, err)

	cases := []types.Envelope{
		env(types.EventTeamNames, `["not","a","map"]`),
		env(types.EventState, `{"bounds":"nope"}`),
		env(types.EventState, ``),
		env(types.EventID, `"seven"`),
	}
	for _, c := range cases {
		_, err := s.Apply(c)
		require.ErrorIs(t, err, ErrMalformedPayload, "event %q", c.E)
	}

	assert.Equal(t, types.TeamNames{1: "one"}, s.Names)
	assert.False(t, s.Engine.Bootstrapped)
	assert.Zero(t, s.Ticks)
}

func TestUnknownEventsAreIgnored(t *testing.T) {
	s := New(time.Now())
	u, err := s.Apply(env("chat", `{"text":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, UpdateIgnored, u.Kind)
}

func TestIDMessage(t *testing.T) {
	s := New(time.Now())
	_, err := s.Apply(env(types.EventID, `12`))
	require.NoError(t, err)
	assert.Equal(t, types.PlayerID(12), s.SelfID)
}
