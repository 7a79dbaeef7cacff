// Package sqlite is an embedded message backend for local runs and tests.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cwrk-planet/guestbook/internal/domain"
	"github.com/cwrk-planet/guestbook/internal/store"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type messageRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:100;not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (messageRecord) TableName() string { return "messages" }

func (r messageRecord) toDomain() domain.Message {
	return domain.Message{ID: r.ID, Name: r.Name, Text: r.Message, CreatedAt: r.CreatedAt}
}

// Open opens path (":memory:" allowed) and migrates the messages table.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// created_at is stored as text; a fixed UTC offset keeps it sortable.
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&messageRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate messages: %w", err)
	}
	return db, nil
}

type Connector struct {
	db *gorm.DB
}

func NewConnector(db *gorm.DB) *Connector {
	return &Connector{db: db}
}

func (c *Connector) Connect(ctx context.Context) (store.Session, error) {
	if err := c.Ping(ctx); err != nil {
		return nil, &domain.ConnectError{Err: err}
	}
	return &Session{db: c.db.WithContext(ctx)}, nil
}

func (c *Connector) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Connector) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type Session struct {
	db *gorm.DB
}

func (s *Session) Insert(ctx context.Context, name, message string) error {
	rec := messageRecord{Name: name, Message: message}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return &domain.WriteError{Stage: domain.StageExec, Err: err}
	}
	return nil
}

func (s *Session) ListNewestFirst(ctx context.Context) ([]domain.Message, error) {
	var recs []messageRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}

	out := make([]domain.Message, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Session) Close() error { return nil }
