// Package hub is the spectator's message handler: it owns the current
// session and fans each decoded message out to the render sinks, the kill
// feed and the page board.
package hub

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/arena-spectator/internal/board"
	"github.com/DoyleJ11/arena-spectator/internal/engine"
	"github.com/DoyleJ11/arena-spectator/internal/feed"
	"github.com/DoyleJ11/arena-spectator/internal/render"
	"github.com/DoyleJ11/arena-spectator/internal/session"
	"github.com/DoyleJ11/arena-spectator/internal/ws"
	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

type Options struct {
	Logger *zap.Logger
	Feed   *feed.Log
	Board  *board.Board // optional
	Sinks  []render.Sink
	// StatusListeners see every connection status change.
	StatusListeners []func(ws.Status)
	Clock           func() time.Time
}

// Hub is driven by a single goroutine (the connection's); it does no
// locking of its own.
type Hub struct {
	log     *zap.Logger
	feed    *feed.Log
	board   *board.Board
	sinks   []render.Sink
	status  []func(ws.Status)
	now     func() time.Time
	session *session.Session
}

func New(opts Options) *Hub {
	h := &Hub{
		log:    opts.Logger,
		feed:   opts.Feed,
		board:  opts.Board,
		sinks:  opts.Sinks,
		status: opts.StatusListeners,
		now:    opts.Clock,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.feed == nil {
		h.feed = feed.New()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.board != nil {
		h.feed.Watch(func(e feed.Entry) { h.board.Publish(board.AddFeed{Entry: e}) })
	}
	h.session = session.New(h.now())
	return h
}

// Session returns the state of the current connection.
func (h *Hub) Session() *session.Session { return h.session }

func (h *Hub) Feed() *feed.Log { return h.feed }

// SessionStarted drops everything the previous connection taught us,
// including team names: the roster may differ after a reconnect.
func (h *Hub) SessionStarted() {
	h.session = session.New(h.now())
	h.log.Info("session started", zap.Stringer("session", h.session.ID))
	if h.board != nil {
		h.board.Publish(board.NewSession{ID: h.session.ID.String()})
	}
}

func (h *Hub) HandleMessage(_ context.Context, env types.Envelope) error {
	u, err := h.session.Apply(env)
	if err != nil {
		return err
	}

	switch u.Kind {
	case session.UpdateTeamNames:
		h.log.Debug("team names", zap.Int("teams", len(h.session.Names)))
		if h.session.Engine.Bootstrapped {
			h.publishLeaderboard(h.session.Engine.Rendered)
		}

	case session.UpdateState:
		h.handleState(u)

	case session.UpdateID:
		h.log.Debug("assigned player id", zap.Uint32("id", uint32(h.session.SelfID)))

	case session.UpdateIgnored:
		h.log.Debug("ignoring message", zap.String("event", env.E))
	}
	return nil
}

func (h *Hub) handleState(u session.Update) {
	names := h.session.Names
	snap := u.Snapshot

	// The arena is redrawn every tick; the leaderboard only when it changed.
	for _, sink := range h.sinks {
		sink.Draw(snap, names)
	}
	if h.board != nil {
		h.board.Publish(board.SetArena{Arena: board.Arena{
			Bounds:  snap.Bounds,
			Ships:   len(snap.Players),
			Bullets: len(snap.Bullets),
			Items:   len(snap.Items),
			Dead:    len(snap.Dead),
			Tick:    h.session.Ticks,

			Respawning: respawning(snap, names, h.now()),
		}})
	}

	if u.First || u.ScoreboardChanged() {
		h.publishLeaderboard(snap.Scoreboard)
	}

	for _, e := range u.Events {
		if text := engine.Describe(e, names); text != "" {
			h.feed.Append(text)
		}
	}
}

// respawning lists the dead players that carry a respawn time, soonest
// first. Times already past count down from zero.
func respawning(snap types.Snapshot, names types.TeamNames, now time.Time) []board.Respawn {
	var out []board.Respawn
	for _, d := range snap.Dead {
		if d.Respawn == nil {
			continue
		}
		at := d.Respawn.Time()
		out = append(out, board.Respawn{
			Player: d.Player.ID,
			Name:   names.Name(d.Player.ID),
			At:     at,
			InMS:   max(at.Sub(now).Milliseconds(), 0),
		})
	}
	slices.SortFunc(out, func(a, b board.Respawn) int {
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
	return out
}

func (h *Hub) publishLeaderboard(sb types.Scoreboard) {
	if h.board == nil {
		return
	}
	standings := engine.Leaderboard(sb)
	rows := make([]board.Row, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, board.Row{
			Rank:   s.Rank,
			Player: s.Player,
			Name:   h.session.Names.Name(s.Player),
			Score:  s.Score,
		})
	}
	h.board.Publish(board.SetLeaderboard{Rows: rows})
}

// OnStatus is the connection's status observer.
func (h *Hub) OnStatus(s ws.Status, err error) {
	if h.board != nil {
		h.board.Publish(board.SetStatus{Status: string(s)})
	}
	for _, l := range h.status {
		l(s)
	}
}
