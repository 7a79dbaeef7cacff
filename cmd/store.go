package main

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/guestbook/config"
	"github.com/cwrk-planet/guestbook/internal/mysql"
	"github.com/cwrk-planet/guestbook/internal/pg"
	"github.com/cwrk-planet/guestbook/internal/postgres"
	"github.com/cwrk-planet/guestbook/internal/sqlite"
	"github.com/cwrk-planet/guestbook/internal/store"
)

// openStore connects to the configured backend and pings it once.
func openStore(ctx context.Context, db config.Database) (store.Connector, error) {
	switch db.Driver {
	case config.DriverPostgres:
		pool, err := pg.NewPool(ctx, pg.Config{
			DSN:             db.PostgresDSN(),
			MaxConns:        db.MaxConns,
			MinConns:        db.MinConns,
			MaxConnLifetime: db.MaxConnLifetime,
			MaxConnIdleTime: db.MaxConnIdleTime,
			ConnectTimeout:  db.ConnectTimeout,
			ApplicationName: db.ApplicationName,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return postgres.NewConnector(pool), nil

	case config.DriverMySQL:
		sqlDB, err := mysql.Open(ctx, mysql.Config{
			Host:           db.Host,
			Port:           db.Port,
			User:           db.User,
			Password:       db.Password,
			Database:       db.Name,
			ConnectTimeout: db.ConnectTimeout,
			MaxOpenConns:   int(db.MaxConns),
			MaxIdleConns:   int(db.MinConns),
			ConnMaxLife:    db.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		return mysql.NewConnector(sqlDB), nil

	case config.DriverSQLite:
		gdb, err := sqlite.Open(db.Path)
		if err != nil {
			return nil, err
		}
		return sqlite.NewConnector(gdb), nil

	default:
		return nil, fmt.Errorf("unknown driver %q", db.Driver)
	}
}
