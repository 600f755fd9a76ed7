package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manvan/internal/middleware"
	"manvan/internal/session"
	"manvan/internal/storage"
	"manvan/internal/storage/migrate"
	"manvan/internal/storage/relational"
)

type testEnv struct {
	router       *gin.Engine
	store        *relational.Store
	sessions     *session.MemoryStore
	admin, plain *storage.User
}

func setup(t *testing.T, migrator Migrator) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store, err := relational.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	env := &testEnv{
		store:    store,
		sessions: session.NewMemoryStore(time.Hour),
		admin:    &storage.User{Username: "root", Email: "root@example.com", Password: "x", IsAdmin: true},
		plain:    &storage.User{Username: "carla", Email: "carla@example.com", Password: "x"},
	}
	require.NoError(t, store.CreateUser(ctx, env.admin))
	require.NoError(t, store.CreateUser(ctx, env.plain))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			if u, err := store.GetUser(c.Request.Context(), storage.ID(id)); err == nil {
				middleware.SetUser(c, u)
			}
		}
		c.Next()
	})
	NewHandler(NewService(store, env.sessions, migrator)).RegisterRoutes(r.Group("/api"))
	env.router = r
	return env
}

func (e *testEnv) do(method, path string, body any, userID storage.ID) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User-ID", userID.String())
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestAdmin_Gate(t *testing.T) {
	env := setup(t, nil)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/admin/users", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/admin/users", nil, env.plain.ID).Code)

	rr := env.do(http.MethodGet, "/api/admin/users", nil, env.admin.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestAdmin_UserFlags(t *testing.T) {
	env := setup(t, nil)
	base := "/api/admin/users/" + env.plain.ID.String()

	rr := env.do(http.MethodPatch, base+"/van-owner-status", map[string]any{"isVanOwner": true}, env.admin.ID)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	u, err := env.store.GetUser(context.Background(), env.plain.ID)
	require.NoError(t, err)
	assert.True(t, u.IsVanOwner)

	rr = env.do(http.MethodPatch, base+"/van-owner-status", map[string]any{}, env.admin.ID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPatch, base+"/admin-status", map[string]any{"isAdmin": true}, env.admin.ID)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodPatch, "/api/admin/users/"+env.admin.ID.String()+"/admin-status", map[string]any{"isAdmin": false}, env.admin.ID)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(http.MethodPatch, "/api/admin/users/9999/admin-status", map[string]any{"isAdmin": true}, env.admin.ID)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdmin_DeleteUser(t *testing.T) {
	env := setup(t, nil)
	ctx := context.Background()

	sess, err := env.sessions.Create(ctx, env.plain.ID.String())
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, env.do(http.MethodDelete, "/api/admin/users/"+env.admin.ID.String(), nil, env.admin.ID).Code)

	rr := env.do(http.MethodDelete, "/api/admin/users/"+env.plain.ID.String(), nil, env.admin.ID)
	require.Equal(t, http.StatusNoContent, rr.Code)

	_, err = env.store.GetUser(ctx, env.plain.ID)
	assert.True(t, storage.IsNotFound(err))
	_, err = env.sessions.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/admin/users/"+env.plain.ID.String(), nil, env.admin.ID).Code)
}

func TestAdmin_MigrateUnavailable(t *testing.T) {
	env := setup(t, nil)
	rr := env.do(http.MethodPost, "/api/admin/migrate", nil, env.admin.ID)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestAdmin_MigrateIntoPopulatedStore(t *testing.T) {
	env := setup(t, migratorFunc(func(context.Context) (*migrate.Report, error) {
		return nil, migrate.ErrDestinationNotEmpty
	}))
	rr := env.do(http.MethodPost, "/api/admin/migrate", nil, env.admin.ID)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "CONFLICT")
}
