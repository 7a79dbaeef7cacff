package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cwrk-planet/guestbook/internal/domain"
)

const (
	queryInsertMessage = `INSERT INTO messages (name, message) VALUES (?, ?)`
	queryListMessages  = `SELECT id, name, message, created_at FROM messages ORDER BY created_at DESC, id DESC`
)

// conn is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type conn interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type MessageRepository struct {
	c conn
}

func NewMessageRepository(c conn) *MessageRepository {
	return &MessageRepository{c: c}
}

// Insert prepares the statement server-side and binds both values as strings.
func (r *MessageRepository) Insert(ctx context.Context, name, message string) error {
	stmt, err := r.c.PrepareContext(ctx, queryInsertMessage)
	if err != nil {
		return &domain.WriteError{Stage: domain.StagePrepare, Err: err}
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, name, message); err != nil {
		return &domain.WriteError{Stage: domain.StageExec, Err: err}
	}
	return nil
}

func (r *MessageRepository) ListNewestFirst(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.c.QueryContext(ctx, queryListMessages)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Message, 0, 32)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
