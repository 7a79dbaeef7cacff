package http

import (
	"io/fs"
	"net/http"
	"time"

	reqlog "github.com/cwrk-planet/guestbook/internal/transport/logger"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

const defaultHandlerTimeout = 30 * time.Second

// HandlerTimeout is the per-request deadline for the page routes. It stays
// below the server write timeout so the 504 can still be written.
func HandlerTimeout(writeTimeout time.Duration) time.Duration {
	if writeTimeout <= 0 {
		return defaultHandlerTimeout
	}
	return writeTimeout * 9 / 10
}

func NewRouter(h *Handler, writeTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(reqlog.WithRequestLoggerCtx)
	r.Use(reqlog.RequestLogger)
	r.Use(middlewareChi.Recoverer)

	r.Group(func(pr chi.Router) {
		pr.Use(middlewareChi.Timeout(HandlerTimeout(writeTimeout)))
		pr.Get("/", h.Guestbook)
		pr.Post("/", h.Guestbook)
	})

	static, _ := fs.Sub(assets, "static")
	r.Get("/style.css", http.FileServer(http.FS(static)).ServeHTTP)

	r.Get("/healthz", h.Health)

	return r
}
