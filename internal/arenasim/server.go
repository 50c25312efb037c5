// Package arenasim serves a stand-in game server for running the spectator
// locally and for tests.
package arenasim

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

const writeWait = 5 * time.Second

type Config struct {
	Tick    time.Duration
	Names   types.TeamNames
	Bounds  types.Bounds
	Players int
	Seed    uint64

	// Script, when set, is sent verbatim on every connection instead of a
	// simulated game. Frames need not be valid JSON.
	Script [][]byte
	// HangUp closes the connection after the script has been sent.
	HangUp bool
}

type Server struct {
	cfg         Config
	log         *zap.Logger
	upgrader    websocket.Upgrader
	connections atomic.Int32
}

func NewServer(cfg Config, log *zap.Logger) *Server {
	if cfg.Tick <= 0 {
		cfg.Tick = 50 * time.Millisecond
	}
	if cfg.Bounds == (types.Bounds{}) {
		cfg.Bounds = types.Bounds{1000, 700}
	}
	if cfg.Players <= 0 {
		cfg.Players = len(cfg.Names)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			// Spectators connect from anywhere.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connections counts accepted websocket connections.
func (s *Server) Connections() int {
	return int(s.connections.Load())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	n := s.connections.Add(1)
	log := s.log.With(zap.Int32("conn", n))
	log.Info("spectator connected", zap.String("remote", r.RemoteAddr))

	done := make(chan struct{})
	go func() {
		// Spectators send nothing; reading only notices the close.
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if s.cfg.Names != nil {
		if err := s.send(conn, types.EventTeamNames, s.cfg.Names); err != nil {
			log.Info("send team names", zap.Error(err))
			return
		}
	}

	if s.cfg.Script != nil {
		s.playScript(conn, done, log)
		return
	}
	s.simulate(conn, done, log)
}

func (s *Server) playScript(conn *websocket.Conn, done <-chan struct{}, log *zap.Logger) {
	for _, frame := range s.cfg.Script {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			log.Info("write", zap.Error(err))
			return
		}
	}
	if s.cfg.HangUp {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "script finished")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return
	}
	<-done
}

func (s *Server) simulate(conn *websocket.Conn, done <-chan struct{}, log *zap.Logger) {
	game := NewGame(s.cfg.Seed+uint64(s.connections.Load()), s.cfg.Bounds, s.cfg.Players)
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			log.Info("spectator left")
			return
		case <-ticker.C:
			if err := s.send(conn, types.EventState, game.Step()); err != nil {
				log.Info("write", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, e string, payload any) error {
	frame, err := types.Encode(e, payload)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, frame)
}
