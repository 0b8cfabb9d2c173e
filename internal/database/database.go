// Package database provides message persistence backed by PostgreSQL.
// The messages table is append-only; ids are store-assigned serials and
// rows are never updated or deleted.
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries wraps a connection pool with the message query set.
type Queries struct {
	db DBTX
}

// New returns a new instance of Queries.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Message is one stored chat message row.
type Message struct {
	ID        int64
	Username  string
	Content   string
	CreatedAt pgtype.Timestamptz
}

type CreateMessageParams struct {
	Username  string
	Content   string
	CreatedAt pgtype.Timestamptz
}

const createMessage = `
INSERT INTO messages (username, content, created_at)
VALUES ($1, $2, $3)
RETURNING id, username, content, created_at
`

// CreateMessage appends one message and returns the stored row. The id is
// assigned by the database; the given created_at is stored verbatim.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	row := q.db.QueryRow(ctx, createMessage, arg.Username, arg.Content, arg.CreatedAt)
	var m Message
	err := row.Scan(&m.ID, &m.Username, &m.Content, &m.CreatedAt)
	return m, err
}

const listRecentMessages = `
SELECT id, username, content, created_at
FROM messages
ORDER BY id DESC
LIMIT $1
`

// ListRecentMessages returns up to limit messages, newest first by
// insertion order.
func (q *Queries) ListRecentMessages(ctx context.Context, limit int32) ([]Message, error) {
	rows, err := q.db.Query(ctx, listRecentMessages, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

const countMessages = `SELECT count(*) FROM messages`

// CountMessages returns the total number of messages ever inserted.
func (q *Queries) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countMessages).Scan(&count)
	return count, err
}
