package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/banterhq/banter/internal/database"
)

// Store is the slice of the persistence layer the API handlers need.
type Store interface {
	CreateMessage(ctx context.Context, arg database.CreateMessageParams) (database.Message, error)
	ListRecentMessages(ctx context.Context, limit int32) ([]database.Message, error)
	CountMessages(ctx context.Context) (int64, error)
}

// Presence exposes the connected-user count for display.
type Presence interface {
	Size() int
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
