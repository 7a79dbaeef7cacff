package postgres

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/guestbook/internal/domain"
	"github.com/cwrk-planet/guestbook/internal/postgres/queries"
)

type MessageRepository struct {
	q querier
}

func NewMessageRepository(q querier) *MessageRepository {
	return &MessageRepository{q: q}
}

// Insert sends name and message as bind parameters of the extended protocol.
func (r *MessageRepository) Insert(ctx context.Context, name, message string) error {
	if _, err := r.q.Exec(ctx, queries.QueryInsertMessage, name, message); err != nil {
		return &domain.WriteError{Stage: domain.StageExec, Err: err}
	}
	return nil
}

func (r *MessageRepository) ListNewestFirst(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.q.Query(ctx, queries.QueryListMessages)
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
