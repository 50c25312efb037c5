package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/arena-spectator/internal/arenasim"
	"github.com/DoyleJ11/arena-spectator/internal/logging"
	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

func main() {
	addr := flag.String("addr", ":9000", "listen address")
	tick := flag.Duration("tick", 50*time.Millisecond, "time between snapshots")
	players := flag.Int("players", 6, "number of ships")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "simulation seed")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log, err := logging.New(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arenasim:", err)
		os.Exit(1)
	}
	defer log.Sync()

	names := make(types.TeamNames, *players)
	for i := 1; i <= *players; i++ {
		names[types.PlayerID(i)] = fmt.Sprintf("team-%d", i)
	}

	sim := arenasim.NewServer(arenasim.Config{
		Tick:    *tick,
		Names:   names,
		Players: *players,
		Seed:    *seed,
	}, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/spectate", sim)

	log.Info("arena simulator listening", zap.String("addr", *addr), zap.Uint64("seed", *seed))
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}
