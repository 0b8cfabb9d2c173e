package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banterhq/banter/internal/ai"
	"github.com/banterhq/banter/internal/model"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, string, []ai.Turn) (string, error) {
	return s.reply, s.err
}

func postAIChat(t *testing.T, completer ai.Completer, store Store, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/ai-chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AIChat(completer, store)(rec, req)
	return rec
}

func TestAIChatPersistsReply(t *testing.T) {
	store := &fakeStore{}
	rec := postAIChat(t, stubCompleter{reply: "hello there"}, store, `{"prompt":"hi"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body aiChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "hello there", body.Reply)

	stored, ok := store.last()
	require.True(t, ok, "reply is persisted")
	assert.Equal(t, model.AIUsername, stored.Username)
	assert.Equal(t, "hello there", stored.Content)
}

func TestAIChatRejectsEmptyPrompt(t *testing.T) {
	rec := postAIChat(t, stubCompleter{reply: "unused"}, &fakeStore{}, `{"prompt":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIChatRejectsBadBody(t *testing.T) {
	rec := postAIChat(t, stubCompleter{reply: "unused"}, &fakeStore{}, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIChatUpstreamFailure(t *testing.T) {
	completer := stubCompleter{err: fmt.Errorf("%w: quota exceeded", ai.ErrUpstream)}
	rec := postAIChat(t, completer, &fakeStore{}, `{"prompt":"hi"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestAIChatUnexpectedFailure(t *testing.T) {
	rec := postAIChat(t, stubCompleter{err: errors.New("boom")}, &fakeStore{}, `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAIChatPersistFailureStillSucceeds(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("store down")}
	rec := postAIChat(t, stubCompleter{reply: "hello"}, store, `{"prompt":"hi"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body aiChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "hello", body.Reply)
}

func TestAIChatTruncatesStoredReply(t *testing.T) {
	store := &fakeStore{}
	long := strings.Repeat("a", 400)
	rec := postAIChat(t, stubCompleter{reply: long}, store, `{"prompt":"hi"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body aiChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, long, body.Reply, "response carries the full reply")

	stored, ok := store.last()
	require.True(t, ok)
	assert.Len(t, stored.Content, model.MaxMessageLen)
}
