package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/arena-spectator/internal/board"
)

func SetupRoutes(b *board.Board, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", Index(b))
	r.Get("/healthz", Healthz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/view", ViewJSON(b))
		r.Get("/leaderboard", LeaderboardJSON(b))
		r.Get("/feed", FeedJSON(b))
	})
	r.Get("/ws", Stream(b, log))
	return r
}
