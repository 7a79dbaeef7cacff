// Package store holds the contracts every message backend implements.
package store

import (
	"context"

	"github.com/cwrk-planet/guestbook/internal/domain"
)

// Session is a connection held for one request/response cycle.
type Session interface {
	// Insert appends one message. Failures are *domain.WriteError.
	Insert(ctx context.Context, name, message string) error
	// ListNewestFirst returns every message ordered by created_at DESC, id DESC.
	ListNewestFirst(ctx context.Context) ([]domain.Message, error)
	Close() error
}

// Connector hands out sessions over a long-lived backend handle.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
	Close() error
}
