// Package relay implements the broadcast core: one hub goroutine owns the
// session map and the presence registry, routes every client event, and
// fans results out to the connected sessions.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/microcosm-cc/bluemonday"

	"github.com/banterhq/banter/internal/database"
	"github.com/banterhq/banter/internal/model"
	"github.com/banterhq/banter/internal/presence"
)

const historyLimit = 20

// Store is the slice of the persistence layer the hub needs.
type Store interface {
	CreateMessage(ctx context.Context, arg database.CreateMessageParams) (database.Message, error)
	ListRecentMessages(ctx context.Context, limit int32) ([]database.Message, error)
}

type sanitizer interface {
	Sanitize(s string) string
	SanitizeBytes(p []byte) []byte
}

// Registration pairs a new client with a channel the hub closes once the
// client is registered.
type Registration struct {
	Client *Client
	Done   chan struct{}
}

type inboundEvent struct {
	client *Client
	event  model.ClientEvent
}

// persistResult re-enters the hub loop after an insert completes, so that
// broadcasts follow store commit order.
type persistResult struct {
	client *Client
	stored database.Message
	err    error
}

// Hub contains the state needed for event routing. All fields are owned by
// the Run goroutine; other goroutines talk to it through channels.
type Hub struct {
	store     Store
	registry  *presence.Registry
	sanitizer sanitizer

	clients map[uuid.UUID]*Client

	Register   chan Registration
	Unregister chan *Client
	inbound    chan inboundEvent
	persisted  chan persistResult
}

// NewHub returns a new instance of Hub.
func NewHub(store Store, registry *presence.Registry) *Hub {
	return &Hub{
		store:      store,
		registry:   registry,
		sanitizer:  bluemonday.StrictPolicy(),
		clients:    make(map[uuid.UUID]*Client),
		Register:   make(chan Registration),
		Unregister: make(chan *Client),
		inbound:    make(chan inboundEvent, 1024),
		persisted:  make(chan persistResult, 1024),
	}
}

// Run processes hub traffic until ctx is cancelled. Registry mutations and
// fan-out happen inline, so each event is fully applied before the next one
// is picked up; only the persistence insert runs in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case reg := <-h.Register:
			client := reg.Client
			client.hub = h
			h.clients[client.ID] = client
			close(reg.Done)

		case client := <-h.Unregister:
			h.removeClient(client)

		case in := <-h.inbound:
			h.route(ctx, in.client, in.event)

		case res := <-h.persisted:
			h.finishSend(res)

		case <-ctx.Done():
			slog.Info("hub stopping", "reason", ctx.Err())
			return
		}
	}
}

func (h *Hub) route(ctx context.Context, c *Client, ev model.ClientEvent) {
	switch ev.Type {
	case model.EventJoin:
		h.handleJoin(c, ev.Username)

	case model.EventMessage:
		h.handleMessage(ctx, c, ev)

	case model.EventHistoryReq:
		h.handleHistory(ctx, c)

	case model.EventTyping:
		if c.username == "" {
			return
		}
		if h.registry.StartTyping(c.username) {
			h.broadcastExcept(model.UserEvent{Type: model.EventTyping, Username: c.username}, c)
		}

	case model.EventStopTyping:
		if c.username == "" {
			return
		}
		if h.registry.StopTyping(c.username) {
			h.broadcastExcept(model.UserEvent{Type: model.EventStopTyping, Username: c.username}, c)
		}

	default:
		// Unknown frames are logged but never fatal to the connection.
		slog.Warn("unknown event type",
			"type", ev.Type,
			"client_id", c.ID.String())
	}
}

func (h *Hub) handleJoin(c *Client, username string) {
	if username == "" {
		h.sendTo(c, model.ErrorEvent{Type: model.EventError, Message: "username is required"})
		return
	}

	// A second join on a live session renames it: run the full leave flow
	// for the old name before joining under the new one.
	if c.username != "" && c.username != username {
		old := c.username
		c.username = ""
		h.registry.Leave(old)
		h.broadcastExcept(model.UserEvent{Type: model.EventLeft, Username: old}, c)
		h.broadcastAll(model.CountEvent{Type: model.EventUserCount, Count: h.registry.Size()})
	}

	c.username = username
	h.registry.Join(username)
	h.broadcastExcept(model.UserEvent{Type: model.EventJoin, Username: username}, c)
	h.broadcastAll(model.CountEvent{Type: model.EventUserCount, Count: h.registry.Size()})
}

func (h *Hub) handleMessage(ctx context.Context, c *Client, ev model.ClientEvent) {
	if c.username == "" {
		h.sendTo(c, model.ErrorEvent{Type: model.EventError, Message: "join before sending messages"})
		return
	}

	// Strip markup before validating so a payload that sanitizes to
	// nothing is rejected as empty.
	text := h.sanitizer.Sanitize(ev.Text)
	username := ev.Username

	if username == "" || text == "" ||
		utf8.RuneCountInString(username) > model.MaxUsernameLen ||
		utf8.RuneCountInString(text) > model.MaxMessageLen {
		h.sendTo(c, model.ErrorEvent{Type: model.EventError, Message: "invalid username or message text"})
		return
	}

	// Client-declared send time is stored verbatim; only a missing
	// timestamp gets stamped here.
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	// The insert is the only suspension point: it runs off the hub
	// goroutine and re-enters through h.persisted, so a slow store blocks
	// this one send, not the loop.
	go func() {
		stored, err := h.store.CreateMessage(ctx, database.CreateMessageParams{
			Username:  username,
			Content:   text,
			CreatedAt: pgtype.Timestamptz{Time: ts, Valid: true},
		})
		select {
		case h.persisted <- persistResult{client: c, stored: stored, err: err}:
		case <-ctx.Done():
		}
	}()
}

// finishSend completes a sendMessage after its insert returns. A message is
// never fanned out unless the store accepted it.
func (h *Hub) finishSend(res persistResult) {
	if res.err != nil {
		slog.Error("failed to store message", "error", res.err)
		h.sendTo(res.client, model.ErrorEvent{Type: model.EventError, Message: "failed to store message"})
		return
	}

	h.broadcastAll(model.MessageEvent{
		Type:      model.EventMessage,
		ID:        res.stored.ID,
		Username:  res.stored.Username,
		Text:      res.stored.Content,
		Timestamp: res.stored.CreatedAt.Time,
	})
}

func (h *Hub) handleHistory(ctx context.Context, c *Client) {
	go func() {
		rows, err := h.store.ListRecentMessages(ctx, historyLimit)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to load messages from database", "error", err)
			h.sendTo(c, model.ErrorEvent{Type: model.EventError, Message: "failed to load message history"})
			return
		}

		// The store enumerates newest first; clients want oldest first.
		messages := make([]model.Message, 0, len(rows))
		for i := len(rows) - 1; i >= 0; i-- {
			messages = append(messages, model.Message{
				ID:        rows[i].ID,
				Username:  rows[i].Username,
				Text:      rows[i].Content,
				Timestamp: rows[i].CreatedAt.Time,
			})
		}

		h.sendTo(c, model.HistoryEvent{Type: model.EventHistory, Messages: messages})
	}()
}

func (h *Hub) removeClient(c *Client) {
	current, ok := h.clients[c.ID]
	if !ok || current != c {
		return
	}

	delete(h.clients, c.ID)
	close(c.done)

	// Leave-cleanup always runs, even with an insert still in flight.
	if c.username != "" {
		h.registry.Leave(c.username)
		h.broadcastExcept(model.UserEvent{Type: model.EventLeft, Username: c.username}, c)
		h.broadcastAll(model.CountEvent{Type: model.EventUserCount, Count: h.registry.Size()})
	}
}

func (h *Hub) broadcastExcept(v any, except *Client) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode event", "error", err)
		return
	}

	for _, client := range h.clients {
		if client == except {
			continue
		}
		if !client.enqueue(payload) {
			slog.Warn("dropping event - channel full or client slow",
				"client_id", client.ID.String())
		}
	}
}

func (h *Hub) broadcastAll(v any) {
	h.broadcastExcept(v, nil)
}

func (h *Hub) sendTo(c *Client, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode event", "error", err)
		return
	}
	c.enqueue(payload)
}
