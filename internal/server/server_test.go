package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stadiumbook/internal/auth"
	"stadiumbook/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	cfg := &config.Config{
		Port:               "0",
		JWTSecret:          testSecret,
		SessionCookieName:  "stadiumbook_session",
		Timezone:           "UTC",
		CORSAllowedOrigins: []string{"*"},
		RateLimitRPS:       100,
		RateLimitBurst:     100,
		BookingAutoConfirm: true,
		CancellationWindow: 8 * time.Hour,
	}

	srv := New(cfg, sqlx.NewDb(conn, "postgres"), nil, nil)
	t.Cleanup(func() { srv.limiter.Close() })
	return srv, mock
}

func serve(srv *Server, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	serve(srv, http.MethodGet, "/health", "")
	w := serve(srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stadiumbook_http_requests_total")
}

func TestServer_ProtectedRoutesRequireAuth(t *testing.T) {
	srv, mock := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/me"},
		{http.MethodPatch, "/api/user/profile"},
		{http.MethodPost, "/api/bookings"},
		{http.MethodGet, "/api/bookings"},
		{http.MethodGet, "/api/bookings/1"},
		{http.MethodPatch, "/api/bookings/1/status"},
		{http.MethodPost, "/api/bookings/1/cancel"},
		{http.MethodPost, "/api/stadiums"},
		{http.MethodPut, "/api/stadiums/1"},
		{http.MethodDelete, "/api/stadiums/1"},
		{http.MethodPut, "/api/stadiums/1/availability"},
		{http.MethodPost, "/api/stadiums/1/reviews"},
		{http.MethodDelete, "/api/reviews/1"},
		{http.MethodGet, "/api/stadiums/1/bookings"},
		{http.MethodGet, "/api/stadiums/1/bookings/export"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := serve(srv, r.method, r.path, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_CreateStadiumRequiresOwnerRole(t *testing.T) {
	srv, mock := newTestServer(t)
	token, err := auth.GenerateAccessToken(20, "player@example.com", auth.RoleUser, testSecret)
	require.NoError(t, err)

	w := serve(srv, http.MethodPost, "/api/stadiums", token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_UnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, http.MethodGet, "/api/nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, srv.Shutdown(ctx))
	assert.NotNil(t, srv.Bookings())
}
