package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/banterhq/banter/internal/model"
)

// Client is one live connection. The bound username is owned by the hub
// goroutine and stays empty until the session joins.
type Client struct {
	ID   uuid.UUID
	conn *websocket.Conn
	hub  *Hub

	send chan []byte
	done chan struct{}

	username string

	messageLim *rate.Limiter
	typingLim  *rate.Limiter
}

// NewClient returns a new instance of Client.
func NewClient(conn *websocket.Conn, id uuid.UUID) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
}

func (c *Client) SetMessageLimiter(requests int, window time.Duration) {
	c.messageLim = rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
}

func (c *Client) SetTypingLimiter(requests int, window time.Duration) {
	c.typingLim = rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
}

// enqueue hands a payload to the write pump without blocking. It reports
// false when the session is gone or the buffer is full.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// ReadPump reads the incoming frames from the websocket stream and feeds
// them to the hub. It returns when the connection drops, after queueing the
// unregister so leave-cleanup always runs.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister <- c
		c.conn.CloseNow()
	}()

	for {
		msgType, p, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway &&
				status != -1 {
				slog.Warn("websocket read failed", "error", err)
			}
			return
		}

		if msgType != websocket.MessageText {
			continue
		}

		var ev model.ClientEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			slog.Warn("failed to process payload from client",
				"error", err,
				"client_id", c.ID.String())
			continue
		}

		switch ev.Type {
		case model.EventPing:
			// Liveness probe only: answered here so it can never touch
			// presence state.
			pong, _ := json.Marshal(model.PongEvent{Type: model.EventPong})
			c.enqueue(pong)
			continue

		case model.EventMessage:
			if c.messageLim != nil && !c.messageLim.Allow() {
				msg, _ := json.Marshal(model.ErrorEvent{
					Type:    model.EventError,
					Message: "sending too fast, slow down",
				})
				c.enqueue(msg)
				continue
			}

		case model.EventTyping, model.EventStopTyping:
			if c.typingLim != nil && !c.typingLim.Allow() {
				continue
			}
		}

		select {
		case c.hub.inbound <- inboundEvent{client: c, event: ev}:
		case <-ctx.Done():
			return
		}
	}
}

// WritePump drains the send queue to the websocket stream.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case payload := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				slog.Warn("websocket write failed",
					"error", err,
					"client_id", c.ID.String())
				c.conn.CloseNow()
				return
			}

		case <-c.done:
			c.conn.Close(websocket.StatusNormalClosure, "session closed")
			return

		case <-ctx.Done():
			c.conn.Close(websocket.StatusGoingAway, "context cancelled")
			return
		}
	}
}
