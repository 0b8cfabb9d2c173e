package handler

import (
	"context"
	"sync"

	"github.com/banterhq/banter/internal/database"
)

type fakeStore struct {
	mu        sync.Mutex
	rows      []database.Message
	nextID    int64
	insertErr error
}

func (s *fakeStore) CreateMessage(_ context.Context, arg database.CreateMessageParams) (database.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertErr != nil {
		return database.Message{}, s.insertErr
	}

	s.nextID++
	m := database.Message{
		ID:        s.nextID,
		Username:  arg.Username,
		Content:   arg.Content,
		CreatedAt: arg.CreatedAt,
	}
	s.rows = append(s.rows, m)
	return m, nil
}

func (s *fakeStore) ListRecentMessages(_ context.Context, limit int32) ([]database.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []database.Message{}
	for i := len(s.rows) - 1; i >= 0 && len(out) < int(limit); i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

func (s *fakeStore) CountMessages(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.rows)), nil
}

func (s *fakeStore) last() (database.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rows) == 0 {
		return database.Message{}, false
	}
	return s.rows[len(s.rows)-1], true
}
