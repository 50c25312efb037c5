package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/arena-spectator/internal/board"
)

const streamWriteTimeout = 3 * time.Second

// Stream pushes every board change to a browser viewer.
func Stream(b *board.Board, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		viewerID, err := GenerateViewerID()
		if err != nil {
			conn.Close(websocket.StatusInternalError, "id")
			return
		}
		log := log.With(zap.String("viewer", viewerID))

		out := make(chan board.View, 8)
		b.Publish(board.Join{ClientID: viewerID, Outbox: out})
		defer b.Publish(board.Leave{ClientID: viewerID})

		// Viewers send nothing; CloseRead notices when they go away.
		ctx := conn.CloseRead(r.Context())
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-out:
				if !ok {
					log.Debug("viewer dropped")
					return
				}
				if err := write(ctx, conn, v); err != nil {
					log.Debug("write view", zap.Error(err))
					return
				}
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, v board.View) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
