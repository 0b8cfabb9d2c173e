package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/banterhq/banter/internal/ai"
	"github.com/banterhq/banter/internal/database"
	"github.com/banterhq/banter/internal/model"
)

type aiChatRequest struct {
	Prompt  string    `json:"prompt"`
	History []ai.Turn `json:"history"`
}

type aiChatResponse struct {
	Reply string `json:"reply"`
}

// AIChat proxies a prompt to the completion provider and best-effort
// persists the reply under the reserved "AI" username. A failed persist
// never fails the HTTP response.
func AIChat(completer ai.Completer, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req aiChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if strings.TrimSpace(req.Prompt) == "" {
			respondError(w, http.StatusBadRequest, "prompt is required")
			return
		}

		reply, err := completer.Complete(ctx, req.Prompt, req.History)
		if err != nil {
			slog.Error("completion failed", "error", err)
			if errors.Is(err, ai.ErrUpstream) {
				respondError(w, http.StatusBadGateway, "ai provider unavailable")
				return
			}
			respondError(w, http.StatusInternalServerError, "unexpected error")
			return
		}

		// The messages table caps content at 255 chars; store a truncated
		// copy so long completions still leave a record.
		stored := reply
		if runes := []rune(stored); len(runes) > model.MaxMessageLen {
			stored = string(runes[:model.MaxMessageLen])
		}

		if _, err := store.CreateMessage(ctx, database.CreateMessageParams{
			Username:  model.AIUsername,
			Content:   stored,
			CreatedAt: pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
		}); err != nil {
			slog.Warn("failed to persist ai reply", "error", err)
		}

		respondJSON(w, http.StatusOK, aiChatResponse{Reply: reply})
	}
}
