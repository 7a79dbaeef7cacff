package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
)

// Collation forces the 4-byte safe utf8mb4 character set on every connection.
const Collation = "utf8mb4_unicode_ci"

// SessionTimeZone pins the connection to UTC so created_at scans back unshifted.
const SessionTimeZone = "'+00:00'"

type Config struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	ConnectTimeout time.Duration
	MaxOpenConns   int
	MaxIdleConns   int
	ConnMaxLife    time.Duration
}

// DSN builds a driver DSN from the four connection values.
func (c Config) DSN() string {
	mc := gomysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.Host
	if c.Port > 0 {
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	mc.DBName = c.Database
	mc.Collation = Collation
	mc.ParseTime = true
	mc.Loc = time.UTC
	// TIMESTAMP values are converted to the session zone, which must match Loc.
	mc.Params = map[string]string{"time_zone": SessionTimeZone}
	if c.ConnectTimeout > 0 {
		mc.Timeout = c.ConnectTimeout
	}
	return mc.FormatDSN()
}

// Open creates the handle and pings it so a dead server fails at startup.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLife)
	}

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}
