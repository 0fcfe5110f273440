package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var (
	testNow        = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	taskRowColumns = []string{"id", "title", "description", "status", "created_at", "updated_at"}
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			LogLevel:        "debug",
			ShutdownTimeout: 2 * time.Second,
		},
		Database: config.DatabaseConfig{
			URL:          "postgres://tasks@localhost:5432/tasks",
			MaxOpenConns: 2,
		},
		Auth: config.AuthConfig{
			TokenLifetimeMinutes: 60,
		},
		Reminder: config.ReminderConfig{
			Interval:   time.Hour,
			StaleAfter: time.Hour,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*application, sqlmock.Sqlmock, *logger.TestLogBuffer) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	buf, l := logger.NewTestLogger(t)
	app, err := newApplication(cfg, l, db, domain.FixedClock(testNow))
	require.NoError(t, err)
	return app, mock, buf
}

func TestNewApplication(t *testing.T) {
	t.Run("auth disabled leaves the gate off", func(t *testing.T) {
		app, _, _ := newTestApp(t, testConfig())
		assert.Nil(t, app.jwtService)
		assert.NotNil(t, app.taskService)
		assert.NotNil(t, app.scanner)
	})

	t.Run("auth enabled builds the JWT service", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.Enabled = true
		cfg.Auth.JWTSecret = testSecret

		app, _, _ := newTestApp(t, cfg)
		assert.NotNil(t, app.jwtService)
	})

	t.Run("short secret is rejected", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.Enabled = true
		cfg.Auth.JWTSecret = "short"

		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), db, nil)
		assert.ErrorContains(t, err, "JWT service")
	})
}

func TestRouter_Health(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	rr := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRouter_TaskRoutes(t *testing.T) {
	app, mock, _ := newTestApp(t, testConfig())
	router := app.setupRouter()

	mock.ExpectQuery(`FROM tasks ORDER BY created_at DESC, id DESC`).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(2), "second", nil, "Pending", testNow, testNow).
			AddRow(int64(1), "first", "notes", "Done", testNow.Add(-time.Hour), testNow))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "second", body[0]["title"])
	assert.Equal(t, "Done", body[1]["status"])
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))

	mock.ExpectQuery(`FROM tasks WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tasks/9", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_AuthGate(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.JWTSecret = testSecret

	app, mock, _ := newTestApp(t, cfg)
	router := app.setupRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code, "health stays public")

	token, err := app.jwtService.GenerateToken(context.Background(), "ops")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM tasks ORDER BY`).WillReturnRows(sqlmock.NewRows(taskRowColumns))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScannerWiring(t *testing.T) {
	app, mock, buf := newTestApp(t, testConfig())

	mock.ExpectQuery(`WHERE status = \$1 AND updated_at < \$2`).
		WithArgs("Pending", testNow.Add(-time.Hour)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(int64(4), "File taxes", nil, "Pending", testNow.Add(-3*time.Hour), testNow.Add(-2*time.Hour)))

	n, err := app.scanner.ScanOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.Messages(), "Reminder: Task 'File taxes' is still pending!")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Reminder.Enabled = true
	cfg.Reminder.RunOnStart = true

	app, mock, _ := newTestApp(t, cfg)
	mock.ExpectQuery(`WHERE status = \$1 AND updated_at < \$2`).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, 2*time.Second, 10*time.Millisecond, "scanner ran on start")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServe_ListenerFailure(t *testing.T) {
	app, _, _ := newTestApp(t, testConfig())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = app.serve(context.Background(), ln)
	assert.ErrorContains(t, err, "http server failed")
}
