package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"task-tracker/auth"
	"task-tracker/database"
	"task-tracker/models"
	"task-tracker/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umakantv/go-utils/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
	os.Exit(m.Run())
}

type fixture struct {
	db     *sqlx.DB
	tokens *auth.TokenService
	server *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dbConn, err := database.Open(ctx, filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })

	users := repository.NewUserRepository(dbConn)
	_, err = users.Create(ctx, "admin@example.com", "x", models.RoleAdmin)
	require.NoError(t, err)
	_, err = users.Create(ctx, "readonly@example.com", "x", models.RoleReadOnly)
	require.NoError(t, err)
	_, err = dbConn.ExecContext(ctx, "INSERT INTO users (email, hashed_password, role, is_active) VALUES ('off@example.com', 'x', 'admin', 0)")
	require.NoError(t, err)

	tokens := auth.NewTokenService("server-secret")
	return &fixture{db: dbConn, tokens: tokens, server: New("0", dbConn, auth.NewGate(tokens))}
}

func (f *fixture) do(t *testing.T, method, path, email string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if email != "" {
		token, err := f.tokens.Issue(email, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestServer_GateOutcomes(t *testing.T) {
	f := newFixture(t)

	var seen models.User
	f.server.Register(Route{Name: "Admin", Method: http.MethodPost, Path: "/admin", Capability: auth.CapabilityAdmin},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			seen, _ = GetUser(ctx)
			WriteJSON(w, http.StatusOK, map[string]string{"route": GetRouteName(ctx)})
		})

	tests := []struct {
		name       string
		email      string
		wantStatus int
		wantDetail string
	}{
		{name: "anonymous", wantStatus: http.StatusUnauthorized, wantDetail: "Not authenticated"},
		{name: "unknown user", email: "ghost@example.com", wantStatus: http.StatusUnauthorized, wantDetail: "Could not validate credentials"},
		{name: "inactive", email: "off@example.com", wantStatus: http.StatusBadRequest, wantDetail: "Inactive user"},
		{name: "read only", email: "readonly@example.com", wantStatus: http.StatusForbidden, wantDetail: "Not enough permissions"},
		{name: "admin", email: "admin@example.com", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/admin", tt.email)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, detail(t, rec))
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
	assert.Equal(t, "admin@example.com", seen.Email)
}

func TestServer_PublicRouteSkipsGate(t *testing.T) {
	f := newFixture(t)

	f.server.Register(Route{Name: "Open", Method: http.MethodGet, Path: "/open", Capability: auth.CapabilityNone},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			_, authed := GetUser(ctx)
			assert.False(t, authed)
			assert.NotNil(t, GetConn(ctx))
			assert.Equal(t, "/open", GetRoutePath(ctx))
			assert.Equal(t, http.MethodGet, GetRouteMethod(ctx))
			w.WriteHeader(http.StatusNoContent)
		})

	rec := f.do(t, http.MethodGet, "/open", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServer_ConnectionReleased(t *testing.T) {
	f := newFixture(t)
	f.db.SetMaxOpenConns(1)

	f.server.Register(Route{Name: "Boom", Method: http.MethodGet, Path: "/boom", Capability: auth.CapabilityActiveUser},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			WriteError(ctx, w, errors.New("boom"))
		})

	// With a single pooled connection, any leak would block the next request forever.
	for i := 0; i < 3; i++ {
		rec := f.do(t, http.MethodGet, "/boom", "readonly@example.com")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", detail(t, rec))
	}
	for i := 0; i < 3; i++ {
		rec := f.do(t, http.MethodGet, "/boom", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.Equal(t, 0, f.db.Stats().InUse)
}

func TestServer_UnknownRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", detail(t, rec))
}

func TestWriteError_Classification(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantDetail string
	}{
		{BadRequest("bad skip"), http.StatusBadRequest, "bad skip"},
		{auth.ErrMissingCredentials, http.StatusUnauthorized, "Not authenticated"},
		{fmt.Errorf("%w: expired", auth.ErrUnauthenticated), http.StatusUnauthorized, "Could not validate credentials"},
		{auth.ErrInactiveAccount, http.StatusBadRequest, "Inactive user"},
		{auth.ErrInsufficientRole, http.StatusForbidden, "Not enough permissions"},
		{fmt.Errorf("get: %w", models.ErrTaskNotFound), http.StatusNotFound, "Task not found"},
		{models.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered"},
		{errors.New("database is locked"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantDetail, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), rec, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDetail, detail(t, rec))
			assert.NotContains(t, rec.Body.String(), "locked")
		})
	}
}
