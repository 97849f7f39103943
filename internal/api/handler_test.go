package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"asset-tracker-backend/config"
	"asset-tracker-backend/internal/auth"
	"asset-tracker-backend/internal/blob"
	"asset-tracker-backend/internal/db"
	"asset-tracker-backend/internal/store"
	"asset-tracker-backend/internal/ws"
)

// testAPI is a complete API wired against an in-memory database, seeded with
// the bootstrap admin and default catalog.
type testAPI struct {
	router *gin.Engine
	store  store.Store
	tokens auth.TokenService
	hub    *ws.Hub
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	require.NoError(t, db.Seed(gormDB, "admin123"))

	appStore := store.NewGormStore(gormDB)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	blobs, err := blob.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	hub := ws.NewHub()
	handler := NewHandler(HandlerConfig{
		Store:     appStore,
		Auth:      auth.NewService(appStore, tokens),
		Tokens:    tokens,
		Blobs:     blobs,
		Hub:       hub,
		Webpush:   &webpush.Options{VAPIDPublicKey: "test-public-key"},
		MaxUpload: 5 << 20,
	})

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Uploads.Backend = "local"
	cfg.Uploads.BaseURL = "/uploads"
	cfg.Uploads.Dir = t.TempDir()

	return &testAPI{
		router: NewRouter(handler, cfg),
		store:  appStore,
		tokens: tokens,
		hub:    hub,
	}
}

// do runs one request through the router. A non-nil body is sent as JSON;
// a non-empty token rides in the Authorization header.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// adminToken logs the seeded admin in through the real endpoint.
func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	return decode(t, w)["token"].(string)
}

// userToken registers a fresh non-admin account and logs it in.
func (a *testAPI) userToken(t *testing.T, username string) string {
	t.Helper()
	admin := a.adminToken(t)

	w := a.do(t, http.MethodPost, "/api/auth/register", admin, map[string]string{
		"username": username, "password": "pw-" + username,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": "pw-" + username,
	})
	require.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)["token"].(string)
}
