package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cwrk-planet/guestbook/internal/domain"
	"github.com/cwrk-planet/guestbook/internal/service"
	"github.com/cwrk-planet/guestbook/internal/sqlite"
	"github.com/cwrk-planet/guestbook/internal/store"
	transport "github.com/cwrk-planet/guestbook/internal/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router    http.Handler
	connector *sqlite.Connector
}

func newTestApp(t *testing.T, connector store.Connector) http.Handler {
	t.Helper()
	return newTestAppWithTimeout(t, connector, 15*time.Second)
}

func newTestAppWithTimeout(t *testing.T, connector store.Connector, writeTimeout time.Duration) http.Handler {
	t.Helper()
	render, err := transport.NewRenderer("Simple Guestbook", time.UTC)
	require.NoError(t, err)
	return transport.NewRouter(transport.NewHandler(service.NewGuestbookService(connector), render), writeTimeout)
}

func newSQLiteApp(t *testing.T) testApp {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	c := sqlite.NewConnector(db)
	t.Cleanup(func() { _ = c.Close() })
	return testApp{router: newTestApp(t, c), connector: c}
}

func (a testApp) get(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func (a testApp) post(t *testing.T, name, message string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"name": {name}, "message": {message}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a testApp) stored(t *testing.T) []domain.Message {
	t.Helper()
	sess, err := a.connector.Connect(context.Background())
	require.NoError(t, err)
	defer sess.Close()
	msgs, err := sess.ListNewestFirst(context.Background())
	require.NoError(t, err)
	return msgs
}

func TestGuestbook_EmptyState(t *testing.T) {
	app := newSQLiteApp(t)

	rec := app.get(t)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "All Messages (0)")
	assert.Contains(t, body, "No messages yet.")
}

func TestGuestbook_PostSavesAndRenders(t *testing.T) {
	app := newSQLiteApp(t)
	before := time.Now().UTC()

	rec := app.post(t, "Alice", "Hello!")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Your message has been saved successfully!")
	assert.Contains(t, body, "All Messages (1)")
	assert.Contains(t, body, "<strong>Alice</strong>")
	assert.Contains(t, body, `<div class="message-body">Hello!</div>`)
	assert.Contains(t, body, before.Format("January 2, 2006"))
	assert.NotContains(t, body, "No messages yet.")

	msgs := app.stored(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Alice", msgs[0].Name)
	assert.Equal(t, "Hello!", msgs[0].Text)
	assert.NotZero(t, msgs[0].ID)
	assert.False(t, msgs[0].CreatedAt.IsZero())
}

func TestGuestbook_PostTrimsValues(t *testing.T) {
	app := newSQLiteApp(t)

	app.post(t, "  Alice  ", "\n  Hello!\t")

	msgs := app.stored(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Alice", msgs[0].Name)
	assert.Equal(t, "Hello!", msgs[0].Text)
}

func TestGuestbook_PostBlankFieldsWritesNothing(t *testing.T) {
	app := newSQLiteApp(t)
	app.post(t, "Alice", "Hello!")

	for _, tc := range []struct{ name, message string }{
		{"", "hi"},
		{"Bob", "   "},
		{" \t", "\n"},
	} {
		rec := app.post(t, tc.name, tc.message)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Please fill in both name and message fields.")
		assert.Contains(t, body, "All Messages (1)")
	}
	assert.Len(t, app.stored(t), 1)
}

func TestGuestbook_MissingFieldsIsValidationError(t *testing.T) {
	app := newSQLiteApp(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("other=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill in both name and message fields.")
	assert.Empty(t, app.stored(t))
}

func TestGuestbook_EscapingRoundTrip(t *testing.T) {
	app := newSQLiteApp(t)

	rec := app.post(t, "<b>Bob</b>", "line one\nline two")

	body := rec.Body.String()
	assert.Contains(t, body, "&lt;b&gt;Bob&lt;/b&gt;")
	assert.NotContains(t, body, "<b>Bob</b>")
	assert.Contains(t, body, "line one<br />\nline two")

	msgs := app.stored(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, "<b>Bob</b>", msgs[0].Name)
	assert.Equal(t, "line one\nline two", msgs[0].Text)
}

func TestGuestbook_NewestFirst(t *testing.T) {
	app := newSQLiteApp(t)
	app.post(t, "t1", "first")
	app.post(t, "t2", "second")
	app.post(t, "t3", "third")

	body := app.get(t).Body.String()

	assert.Contains(t, body, "All Messages (3)")
	i3 := strings.Index(body, "<strong>t3</strong>")
	i2 := strings.Index(body, "<strong>t2</strong>")
	i1 := strings.Index(body, "<strong>t1</strong>")
	require.True(t, i3 >= 0 && i2 >= 0 && i1 >= 0)
	assert.True(t, i3 < i2 && i2 < i1, "expected t3, t2, t1 order")
	assert.Equal(t, 1, strings.Count(body, "<strong>t2</strong>"))
}

func TestGuestbook_GetHasNoBanner(t *testing.T) {
	app := newSQLiteApp(t)
	app.post(t, "Alice", "Hello!")

	body := app.get(t).Body.String()
	assert.NotContains(t, body, "saved successfully")
	assert.Contains(t, body, "All Messages (1)")
}

type failingConnector struct{ err error }

func (f failingConnector) Connect(context.Context) (store.Session, error) {
	return nil, &domain.ConnectError{Err: f.err}
}
func (f failingConnector) Ping(context.Context) error { return f.err }
func (f failingConnector) Close() error               { return nil }

func TestGuestbook_ConnectionFailureIsPlainText(t *testing.T) {
	router := newTestApp(t, failingConnector{err: errors.New("Access denied for user 'guestbook_user'")})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Connection failed: Access denied for user 'guestbook_user'", rec.Body.String())
	}
}

type brokenSession struct{ closed *bool }

func (b brokenSession) Insert(context.Context, string, string) error {
	return &domain.WriteError{Stage: domain.StagePrepare, Err: errors.New("Table 'messages' doesn't exist")}
}
func (b brokenSession) ListNewestFirst(context.Context) ([]domain.Message, error) {
	return []domain.Message{}, nil
}
func (b brokenSession) Close() error {
	*b.closed = true
	return nil
}

type brokenConnector struct{ closed *bool }

func (c brokenConnector) Connect(context.Context) (store.Session, error) {
	return brokenSession{closed: c.closed}, nil
}
func (c brokenConnector) Ping(context.Context) error { return nil }
func (c brokenConnector) Close() error               { return nil }

func TestGuestbook_WriteFailureBanner(t *testing.T) {
	closed := false
	router := newTestApp(t, brokenConnector{closed: &closed})

	form := url.Values{"name": {"Alice"}, "message": {"Hello!"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Database error: Table &#39;messages&#39; doesn&#39;t exist")
	assert.Contains(t, body, "All Messages (0)")
	assert.True(t, closed, "session must be released")
}

func TestStaticAndHealth(t *testing.T) {
	app := newSQLiteApp(t)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), ".message-card")

	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	down := newTestApp(t, failingConnector{err: errors.New("down")})
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, transport.HandlerTimeout(0))
	assert.Less(t, transport.HandlerTimeout(15*time.Second), 15*time.Second)
	assert.Equal(t, 900*time.Millisecond, transport.HandlerTimeout(time.Second))
}

type blockingConnector struct{}

func (blockingConnector) Connect(ctx context.Context) (store.Session, error) {
	<-ctx.Done()
	return nil, &domain.ConnectError{Err: ctx.Err()}
}
func (blockingConnector) Ping(context.Context) error { return nil }
func (blockingConnector) Close() error               { return nil }

func TestGuestbook_DeadlineFollowsWriteTimeout(t *testing.T) {
	router := newTestAppWithTimeout(t, blockingConnector{}, 100*time.Millisecond)

	start := time.Now()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Connection failed: context deadline exceeded", rec.Body.String())
}
