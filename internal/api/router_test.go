package api_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infragin "github.com/yujin9907/cloud-naitive/infrastructure/gin"
	"github.com/yujin9907/cloud-naitive/internal/api"
	"github.com/yujin9907/cloud-naitive/internal/config"
	"github.com/yujin9907/cloud-naitive/internal/metrics"
	"github.com/yujin9907/cloud-naitive/internal/repository"
	"github.com/yujin9907/cloud-naitive/internal/testhelpers"
)

func newTestServer(t *testing.T) (*infragin.Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := testhelpers.NewTestLogger()
	cfg := &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 5000, CORSOrigins: []string{"*"}}}
	sqlxDB := sqlx.NewDb(db, "postgres")

	srv := api.NewServer(cfg, api.Dependencies{
		Store:   repository.NewPostRepository(sqlxDB, log, true),
		Metrics: metrics.New(prometheus.NewRegistry()),
		DBPing:  db.Ping,
	}, "test", log)
	return srv, mock
}

func serve(srv *infragin.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestRouter_CreateThenList(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts (title, content) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Hello", "World").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, content FROM posts ORDER BY id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}).AddRow(1, "Hello", "World"))

	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBufferString(`{"title":"Hello","content":"World"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(srv, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Created","id":1}`, w.Body.String())

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/posts", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"title":"Hello","content":"World"}]`, w.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_KeywordSearch(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`WHERE title LIKE \$1`).
		WithArgs("%board%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}))

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/posts?keyword=board", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_UpdateAndDeleteMissing(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectExec(`UPDATE posts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM posts`).WillReturnResult(sqlmock.NewResult(0, 0))

	req := httptest.NewRequest(http.MethodPut, "/posts/99", bytes.NewBufferString(`{"title":"t","content":"c"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(srv, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Updated"}`, w.Body.String())

	w = serve(srv, httptest.NewRequest(http.MethodDelete, "/posts/99", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Deleted"}`, w.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_ZeroIDIsAValidNoOp(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET title = $1, content = $2 WHERE id = $3`)).
		WithArgs("t", "c", int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1`)).
		WithArgs(int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := httptest.NewRequest(http.MethodPut, "/posts/0", bytes.NewBufferString(`{"title":"t","content":"c"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(srv, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Updated"}`, w.Body.String())

	w = serve(srv, httptest.NewRequest(http.MethodDelete, "/posts/0", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Deleted"}`, w.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/posts/1", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w := serve(srv, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Contains(t, w.Body.String(), `board_api_http_requests_total{method="OPTIONS",route="unmatched",status="204"} 1`)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectPing()

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"board-api"`)
	assert.Contains(t, w.Body.String(), `"database"`)

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `board_api_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(`SELECT id, title, content FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}))

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/posts", http.NoBody))

	assert.NotEmpty(t, w.Header().Get(infragin.RequestIDHeader))
}
