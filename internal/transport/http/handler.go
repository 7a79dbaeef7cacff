package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cwrk-planet/guestbook/internal/domain"
	"github.com/cwrk-planet/guestbook/internal/service"
	"github.com/cwrk-planet/guestbook/pkg/logger"
)

type Handler struct {
	svc    *service.GuestbookService
	render *Renderer
}

func NewHandler(svc *service.GuestbookService, render *Renderer) *Handler {
	return &Handler{svc: svc, render: render}
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// GET|POST /
func (h *Handler) Guestbook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	sess, err := h.svc.Open(ctx)
	if err != nil {
		log.Error("handler.Guestbook.Open:", slog.Any("err", err))
		detail := err.Error()
		var cerr *domain.ConnectError
		if errors.As(err, &cerr) {
			detail = cerr.Err.Error()
		}
		writePlain(w, http.StatusInternalServerError, "Connection failed: "+detail)
		return
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("handler.Guestbook.Close:", slog.Any("err", err))
		}
	}()

	var res service.Result
	if r.Method == http.MethodPost {
		sub, err := decodeSubmission(r)
		if err != nil {
			log.Warn("handler.Guestbook.Decode:", slog.Any("err", err))
			sub = domain.Submission{}
		}
		res = h.svc.Submit(ctx, sess, sub)
	}

	msgs, err := h.svc.List(ctx, sess)
	if err != nil {
		log.Error("handler.Guestbook.List:", slog.Any("err", err))
		writePlain(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.render.Render(&buf, res, msgs); err != nil {
		log.Error("handler.Guestbook.Render:", slog.Any("err", err))
		writePlain(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn("handler.Health:", slog.Any("err", err))
		writePlain(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writePlain(w, http.StatusOK, "ok")
}
