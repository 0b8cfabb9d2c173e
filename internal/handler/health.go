package handler

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	ConnectedUsers int       `json:"connectedUsers"`
}

// Health reports liveness plus the current connected-user count.
func Health(registry Presence) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, healthResponse{
			Status:         "ok",
			Timestamp:      time.Now().UTC(),
			ConnectedUsers: registry.Size(),
		})
	}
}
