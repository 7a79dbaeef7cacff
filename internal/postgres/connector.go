package postgres

import (
	"context"

	"github.com/cwrk-planet/guestbook/internal/domain"
	"github.com/cwrk-planet/guestbook/internal/pg"
	"github.com/cwrk-planet/guestbook/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector acquires one pool connection per request.
type Connector struct {
	pool *pgxpool.Pool
}

func NewConnector(pool *pgxpool.Pool) *Connector {
	return &Connector{pool: pool}
}

func (c *Connector) Connect(ctx context.Context) (store.Session, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, &domain.ConnectError{Err: err}
	}
	return &session{MessageRepository: NewMessageRepository(conn), conn: conn}, nil
}

func (c *Connector) Ping(ctx context.Context) error {
	return pg.Ping(ctx, c.pool)
}

func (c *Connector) Close() error {
	c.pool.Close()
	return nil
}

type session struct {
	*MessageRepository
	conn *pgxpool.Conn
}

func (s *session) Close() error {
	s.conn.Release()
	return nil
}
