package httpapi

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/DoyleJ11/arena-spectator/internal/board"
)

var errBoardGone = errors.New("board stopped")

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"pad":         func(n int) string { return padRight(strconv.Itoa(n), 3) },
	"legend":      func() []legendItem { return legend },
	"statusColor": statusColor,
	"seconds":     func(ms int64) string { return strconv.FormatFloat(float64(ms)/1000, 'f', 1, 64) },
}).Parse(indexHTML))

func currentView(ctx context.Context, b *board.Board) (board.View, error) {
	reply := make(chan board.View, 1)
	select {
	case b.Inbox() <- board.GetView{Reply: reply}:
	case <-ctx.Done():
		return board.View{}, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return board.View{}, ctx.Err()
	case <-time.After(2 * time.Second):
		return board.View{}, errBoardGone
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Index renders the page chrome. Team names come from the game server and
// are escaped by html/template.
func Index(b *board.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := currentView(r.Context(), b)
		if err != nil {
			http.Error(w, "view unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = indexTmpl.Execute(w, v)
	}
}

func ViewJSON(b *board.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := currentView(r.Context(), b)
		if err != nil {
			http.Error(w, "view unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, v)
	}
}

func LeaderboardJSON(b *board.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := currentView(r.Context(), b)
		if err != nil {
			http.Error(w, "view unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, v.Leaderboard)
	}
}

// FeedJSON returns the kill feed, optionally only the newest ?tail=n lines.
func FeedJSON(b *board.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tail := 0
		if s := r.URL.Query().Get("tail"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				http.Error(w, "bad tail", http.StatusBadRequest)
				return
			}
			tail = n
		}
		v, err := currentView(r.Context(), b)
		if err != nil {
			http.Error(w, "view unavailable", http.StatusServiceUnavailable)
			return
		}
		entries := v.Feed
		if tail > 0 && tail < len(entries) {
			entries = entries[len(entries)-tail:]
		}
		writeJSON(w, entries)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func GenerateViewerID() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	id := make([]byte, 8)
	for i := range id {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		id[i] = charset[num.Int64()]
	}
	return string(id), nil
}
