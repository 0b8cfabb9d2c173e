package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banterhq/banter/internal/database"
	"github.com/banterhq/banter/internal/presence"
)

func TestStats(t *testing.T) {
	store := &fakeStore{}
	for i := 1; i <= 15; i++ {
		store.CreateMessage(context.Background(), database.CreateMessageParams{
			Username:  "alice",
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
		})
	}

	registry := presence.NewRegistry()
	registry.Join("alice")

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	Stats(store, registry)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 15, body.TotalMessages)
	assert.Equal(t, 1, body.ConnectedUsers)

	require.Len(t, body.RecentMessages, 10)
	assert.EqualValues(t, 15, body.RecentMessages[0].ID, "newest first")
	assert.EqualValues(t, 6, body.RecentMessages[9].ID)
}

func TestStatsEmptyStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	Stats(&fakeStore{}, presence.NewRegistry())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.TotalMessages)
	assert.Empty(t, body.RecentMessages)
}
