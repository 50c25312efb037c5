// Package board keeps the page view that local viewers see (connection
// status, leaderboard, kill feed, arena summary) and pushes every change to
// subscribed viewers.
package board

import (
	"context"
	"slices"
	"time"

	"github.com/DoyleJ11/arena-spectator/internal/feed"
	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

type Msg interface{ isBoardMsg() }

type Join struct {
	ClientID string
	Outbox   chan View // where this viewer wants to receive views
}

func (Join) isBoardMsg() {}

type Leave struct{ ClientID string }

func (Leave) isBoardMsg() {}

// NewSession clears what was learned from the previous connection. The
// feed is append-only and survives reconnects.
type NewSession struct{ ID string }

func (NewSession) isBoardMsg() {}

type SetStatus struct{ Status string }

func (SetStatus) isBoardMsg() {}

type SetLeaderboard struct{ Rows []Row }

func (SetLeaderboard) isBoardMsg() {}

type SetArena struct{ Arena Arena }

func (SetArena) isBoardMsg() {}

type AddFeed struct{ Entry feed.Entry }

func (AddFeed) isBoardMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isBoardMsg() {}

type Shutdown struct{}

func (Shutdown) isBoardMsg() {}

type Row struct {
	Rank   int            `json:"rank"`
	Player types.PlayerID `json:"player"`
	Name   string         `json:"name"`
	Score  int            `json:"score"`
}

// Respawn is a dead player the server gave a respawn time for. InMS is the
// countdown at the time the arena summary was built.
type Respawn struct {
	Player types.PlayerID `json:"player"`
	Name   string         `json:"name"`
	At     time.Time      `json:"at"`
	InMS   int64          `json:"in_ms"`
}

type Arena struct {
	Bounds     types.Bounds `json:"bounds"`
	Ships      int          `json:"ships"`
	Bullets    int          `json:"bullets"`
	Items      int          `json:"items"`
	Dead       int          `json:"dead"`
	Tick       int          `json:"tick"`
	Respawning []Respawn    `json:"respawning"`
}

type View struct {
	Version     int          `json:"version"`
	Status      string       `json:"status"`
	Session     string       `json:"session"`
	Leaderboard []Row        `json:"leaderboard"`
	Feed        []feed.Entry `json:"feed"`
	Arena       Arena        `json:"arena"`
}

type Board struct {
	inbox    chan Msg
	view     View
	feedSize int
	clients  map[string]chan View
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, feedSize int) *Board {
	ctx, cancel := context.WithCancel(parent)

	b := &Board{
		inbox:    make(chan Msg, 64),
		view:     View{Status: "connecting", Leaderboard: []Row{}, Feed: []feed.Entry{}},
		feedSize: feedSize,
		clients:  make(map[string]chan View),
		ctx:      ctx,
		cancel:   cancel,
	}

	go b.loop()
	return b
}

// Expose the inbox so tests or the HTTP layer can send messages.
func (b *Board) Inbox() chan<- Msg { return b.inbox }

// Publish delivers m unless the board has shut down.
func (b *Board) Publish(m Msg) {
	select {
	case b.inbox <- m:
	case <-b.ctx.Done():
	}
}

func (b *Board) loop() {
	for {
		select {
		case <-b.ctx.Done():
			b.shutdown()
			return

		case m := <-b.inbox:
			switch msg := m.(type) {
			case Join:
				// Register viewer + send current view immediately
				b.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- b.snapshot()

			case Leave:
				if ch, ok := b.clients[msg.ClientID]; ok {
					close(ch)
					delete(b.clients, msg.ClientID)
				}

			case NewSession:
				b.view.Session = msg.ID
				b.view.Leaderboard = []Row{}
				b.view.Arena = Arena{}
				b.changed()

			case SetStatus:
				b.view.Status = msg.Status
				b.changed()

			case SetLeaderboard:
				b.view.Leaderboard = msg.Rows
				b.changed()

			case SetArena:
				b.view.Arena = msg.Arena
				b.changed()

			case AddFeed:
				b.view.Feed = append(b.view.Feed, msg.Entry)
				if b.feedSize > 0 && len(b.view.Feed) > b.feedSize {
					b.view.Feed = slices.Clone(b.view.Feed[len(b.view.Feed)-b.feedSize:])
				}
				b.changed()

			case GetView:
				msg.Reply <- b.snapshot()

			case Shutdown:
				b.shutdown()
				return
			}
		}
	}
}

func (b *Board) changed() {
	b.view.Version++
	b.broadcast(b.snapshot())
}

// snapshot copies the slices so viewers never share memory with the loop.
func (b *Board) snapshot() View {
	v := b.view
	v.Leaderboard = slices.Clone(b.view.Leaderboard)
	v.Feed = slices.Clone(b.view.Feed)
	v.Arena.Respawning = slices.Clone(b.view.Arena.Respawning)
	return v
}

func (b *Board) shutdown() {
	for id, ch := range b.clients {
		close(ch) // Tell viewer no more views
		delete(b.clients, id)
	}
	b.cancel()
}

func (b *Board) broadcast(v View) {
	for id, ch := range b.clients {
		select {
		case ch <- v:
			//ok
		default:
			// Viewer is slow/full - drop them.
			close(ch)
			delete(b.clients, id)
		}
	}
}
