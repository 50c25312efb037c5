package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultURL        = "wss://combat.sege.dev/spectate"
	DefaultRetryDelay = time.Second
	DefaultHTTPAddr   = ":8080"
	DefaultReadLimit  = 1 << 20
	DefaultFeedSize   = 200
)

type Config struct {
	URL         string
	RetryDelay  time.Duration
	RetryMax    time.Duration // > RetryDelay switches to exponential backoff
	ReadTimeout time.Duration
	ReadLimit   int64
	HTTPAddr    string // empty disables the local page
	LogLevel    string
	Window      bool
	FeedSize    int
}

// Load reads .env files (if present) into the environment and builds a
// Config from it. Missing variables fall back to defaults.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		URL:        DefaultURL,
		RetryDelay: DefaultRetryDelay,
		ReadLimit:  DefaultReadLimit,
		HTTPAddr:   DefaultHTTPAddr,
		LogLevel:   "info",
		FeedSize:   DefaultFeedSize,
	}

	var err error
	if v, ok := lookup("SPECTATOR_URL"); ok && v != "" {
		cfg.URL = v
	}
	if v, ok := lookup("SPECTATOR_HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := lookup("SPECTATOR_LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if cfg.RetryDelay, err = duration(lookup, "SPECTATOR_RETRY_DELAY", cfg.RetryDelay); err != nil {
		return Config{}, err
	}
	if cfg.RetryMax, err = duration(lookup, "SPECTATOR_RETRY_MAX", 0); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = duration(lookup, "SPECTATOR_READ_TIMEOUT", 0); err != nil {
		return Config{}, err
	}
	if v, ok := lookup("SPECTATOR_READ_LIMIT"); ok && v != "" {
		if cfg.ReadLimit, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("SPECTATOR_READ_LIMIT: %w", err)
		}
	}
	if v, ok := lookup("SPECTATOR_FEED_SIZE"); ok && v != "" {
		if cfg.FeedSize, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("SPECTATOR_FEED_SIZE: %w", err)
		}
	}
	if v, ok := lookup("SPECTATOR_WINDOW"); ok && v != "" {
		if cfg.Window, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("SPECTATOR_WINDOW: %w", err)
		}
	}
	return cfg, nil
}

func duration(lookup func(string) (string, bool), key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, v)
	}
	return d, nil
}
