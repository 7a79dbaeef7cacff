package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwrk-planet/guestbook/internal/domain"
	"github.com/cwrk-planet/guestbook/internal/store"
	"github.com/cwrk-planet/guestbook/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type GuestbookService struct {
	connector store.Connector
	validate  *validator.Validate
}

func NewGuestbookService(connector store.Connector) *GuestbookService {
	return &GuestbookService{
		connector: connector,
		validate:  validator.New(),
	}
}

// Open acquires the session for one request. The caller must Close it.
func (s *GuestbookService) Open(ctx context.Context) (store.Session, error) {
	sess, err := s.connector.Connect(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrConnect) {
			return nil, err
		}
		return nil, &domain.ConnectError{Err: err}
	}
	return sess, nil
}

// Validate trims sub and checks both fields are present.
func (s *GuestbookService) Validate(sub domain.Submission) (domain.Submission, error) {
	sub = sub.Trimmed()
	if err := s.validate.Struct(sub); err != nil {
		return sub, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return sub, nil
}

// Submit validates sub and writes it through sess. Store failures become a
// ResultWriteFailed carrying the store's error text; nothing is retried.
func (s *GuestbookService) Submit(ctx context.Context, sess store.Session, sub domain.Submission) Result {
	sub, err := s.Validate(sub)
	if err != nil {
		return Result{Kind: ResultInvalid}
	}

	if err := sess.Insert(ctx, sub.Name, sub.Message); err != nil {
		res := Result{Kind: ResultWriteFailed, Stage: domain.StageExec, Detail: err.Error()}
		var werr *domain.WriteError
		if errors.As(err, &werr) {
			res.Stage = werr.Stage
			res.Detail = werr.Detail()
		}
		logger.FromContext(ctx).ErrorContext(ctx, "save message failed",
			slog.String("stage", string(res.Stage)),
			slog.Any("err", err),
		)
		return res
	}

	return Result{Kind: ResultSaved}
}

func (s *GuestbookService) List(ctx context.Context, sess store.Session) ([]domain.Message, error) {
	msgs, err := sess.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *GuestbookService) Ping(ctx context.Context) error {
	return s.connector.Ping(ctx)
}
