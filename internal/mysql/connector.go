package mysql

import (
	"context"
	"database/sql"

	"github.com/cwrk-planet/guestbook/internal/domain"
	"github.com/cwrk-planet/guestbook/internal/store"
)

// Connector takes one dedicated *sql.Conn per request.
type Connector struct {
	db *sql.DB
}

func NewConnector(db *sql.DB) *Connector {
	return &Connector{db: db}
}

func (c *Connector) Connect(ctx context.Context) (store.Session, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, &domain.ConnectError{Err: err}
	}
	return &session{MessageRepository: NewMessageRepository(conn), conn: conn}, nil
}

func (c *Connector) Ping(ctx context.Context) error {
	return Ping(ctx, c.db)
}

func (c *Connector) Close() error {
	return c.db.Close()
}

type session struct {
	*MessageRepository
	conn *sql.Conn
}

func (s *session) Close() error {
	return s.conn.Close()
}
