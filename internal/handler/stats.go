package handler

import (
	"log/slog"
	"net/http"

	"github.com/banterhq/banter/internal/model"
)

const statsRecentLimit = 10

type statsResponse struct {
	TotalMessages  int64           `json:"totalMessages"`
	ConnectedUsers int             `json:"connectedUsers"`
	RecentMessages []model.Message `json:"recentMessages"`
}

// Stats reports message totals and the latest messages, newest first.
func Stats(store Store, registry Presence) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		total, err := store.CountMessages(ctx)
		if err != nil {
			slog.Error("failed to count messages", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to load stats")
			return
		}

		rows, err := store.ListRecentMessages(ctx, statsRecentLimit)
		if err != nil {
			slog.Error("failed to load messages from database", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to load stats")
			return
		}

		recent := make([]model.Message, 0, len(rows))
		for _, row := range rows {
			recent = append(recent, model.Message{
				ID:        row.ID,
				Username:  row.Username,
				Text:      row.Content,
				Timestamp: row.CreatedAt.Time,
			})
		}

		respondJSON(w, http.StatusOK, statsResponse{
			TotalMessages:  total,
			ConnectedUsers: registry.Size(),
			RecentMessages: recent,
		})
	}
}
