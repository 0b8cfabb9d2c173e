// Package handler wires the HTTP surface: the websocket upgrade and the
// JSON API endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/banterhq/banter/internal/config"
	"github.com/banterhq/banter/internal/relay"
)

// ServeWs handles the client's websocket connection upgrade.
func ServeWs(h *relay.Hub, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			slog.Warn("failed to accept websocket connection", "error", err)
			return
		}

		c := relay.NewClient(conn, uuid.New())
		c.SetMessageLimiter(cfg.MessageRate, cfg.MessageWindow)
		c.SetTypingLimiter(cfg.TypingRate, cfg.TypingWindow)

		reg := relay.Registration{
			Client: c,
			Done:   make(chan struct{}),
		}

		h.Register <- reg

		// Wait for registration to complete.
		<-reg.Done

		// We block on c.ReadPump() because the request context is canceled
		// as soon as we return from the handler.
		go c.WritePump(ctx)
		c.ReadPump(ctx)
	}
}
