package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/arena-spectator/internal/board"
	"github.com/DoyleJ11/arena-spectator/internal/config"
	"github.com/DoyleJ11/arena-spectator/internal/feed"
	"github.com/DoyleJ11/arena-spectator/internal/httpapi"
	"github.com/DoyleJ11/arena-spectator/internal/hub"
	"github.com/DoyleJ11/arena-spectator/internal/logging"
	"github.com/DoyleJ11/arena-spectator/internal/render"
	"github.com/DoyleJ11/arena-spectator/internal/render/window"
	"github.com/DoyleJ11/arena-spectator/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "spectator:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.URL, "url", cfg.URL, "game server spectate endpoint")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "address for the local page (empty disables it)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.BoolVar(&cfg.Window, "window", cfg.Window, "open the arena window")
	flag.DurationVar(&cfg.RetryDelay, "retry", cfg.RetryDelay, "delay before reconnecting")
	flag.Parse()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	b := board.New(gctx, cfg.FeedSize)
	kills := feed.New(feed.WithCapacity(cfg.FeedSize))
	kills.Watch(func(e feed.Entry) {
		fmt.Println(e.Text)
		log.Info("feed", zap.Int("seq", e.Seq), zap.String("text", e.Text))
	})

	opts := hub.Options{Logger: log, Feed: kills, Board: b}
	var win *window.Window
	if cfg.Window {
		// Closes with the group, so a failing listener also ends the window.
		win = window.New(gctx)
		opts.Sinks = []render.Sink{win.Sink()}
		opts.StatusListeners = []func(ws.Status){func(s ws.Status) { win.SetStatus(string(s)) }}
	}
	h := hub.New(opts)

	var backoff ws.Backoff = ws.Fixed{Delay: cfg.RetryDelay}
	if cfg.RetryMax > cfg.RetryDelay {
		backoff = ws.Exponential{Base: cfg.RetryDelay, Max: cfg.RetryMax}
	}
	channel, err := ws.New(ws.Options{
		URL:         cfg.URL,
		Backoff:     backoff,
		ReadTimeout: cfg.ReadTimeout,
		ReadLimit:   cfg.ReadLimit,
		Logger:      log,
		OnStatus:    h.OnStatus,
	})
	if err != nil {
		return err
	}

	g.Go(func() error {
		if err := channel.Run(gctx, h); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if cfg.HTTPAddr != "" {
		srv := &http.Server{Addr: cfg.HTTPAddr, Handler: httpapi.SetupRoutes(b, log)}
		g.Go(func() error {
			log.Info("listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if win != nil {
		// The window must own the main goroutine.
		werr := win.Run()
		cancel()
		if err := g.Wait(); err != nil {
			return err
		}
		return werr
	}
	return g.Wait()
}
