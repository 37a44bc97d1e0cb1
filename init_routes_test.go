package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/fireshield/config"
	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/ws"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        0,
			APIPrefix:   "api/v1",
			Environment: "test",
			FrontendURL: "http://localhost:3001",
		},
		JWT: config.JWTConfig{
			AccessSecret:      "access-secret-for-tests",
			RefreshSecret:     "refresh-secret-for-tests",
			AccessExpiration:  15 * time.Minute,
			RefreshExpiration: time.Hour,
		},
		Email:     config.EmailConfig{FromEmail: "noreply@fireshield.local", FromName: "Fireshield"},
		Upload:    config.UploadConfig{Dir: t.TempDir(), MaxSize: 1 << 20},
		Storage:   config.StorageConfig{Driver: "local"},
		RateLimit: config.RateLimitConfig{TTL: time.Minute, Limit: 1000, AuthAttempts: 10, AuthWindow: time.Minute},
		Telemetry: config.TelemetryConfig{ServiceName: "fireshield-test"},
		Log:       config.LogConfig{Level: "error"},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	cfg := testConfig(t)

	db, err := database.New(ctx, filepath.Join(t.TempDir(), "routes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := initRepositories(db.Conn)
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	svcs, limiters, err := initServices(ctx, repos, hub, cfg)
	require.NoError(t, err)
	t.Cleanup(svcs.Close)
	t.Cleanup(limiters.Stop)

	h := initHandlers(svcs, limiters, hub, db, cfg)
	srv := httptest.NewServer(initRoutes(h, svcs.Auth, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestRoutes_AuthFlowAndRoles(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/api/v1"

	resp, body := doJSON(t, http.MethodPost, api+"/auth/register", "",
		`{"firstName":"Lea","lastName":"Learner","email":"lea@example.com","password":"Secret1!x"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = doJSON(t, http.MethodPost, api+"/auth/login", "",
		`{"email":"lea@example.com","password":"Secret1!x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	data := body["data"].(map[string]any)
	access := data["accessToken"].(string)
	refresh := data["refreshToken"].(string)
	require.NotEmpty(t, access)

	resp, body = doJSON(t, http.MethodGet, api+"/users/me", access, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := body["data"].(map[string]any)
	assert.Equal(t, "lea@example.com", me["email"])
	assert.Equal(t, string(models.RoleLearner), me["role"])
	assert.NotContains(t, me, "passwordHash")

	// Tekil kullanıcı görüntüleme her oturum açmış kullanıcıya açık.
	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/users/%d", api, int64(me["id"].(float64))), access, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "lea@example.com", body["data"].(map[string]any)["email"])

	// Learner admin listesini göremez.
	resp, body = doJSON(t, http.MethodGet, api+"/users", access, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden resource", body["message"])

	resp, _ = doJSON(t, http.MethodGet, api+"/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, api+"/auth/refresh", "", `{"refreshToken":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.NotEmpty(t, body["data"].(map[string]any)["accessToken"])

	resp, _ = doJSON(t, http.MethodPost, api+"/auth/logout", access, `{"refreshToken":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, api+"/auth/refresh", "", `{"refreshToken":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_Operational(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/readyz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Cannot GET /api/v1/nope", body["message"])
	assert.Equal(t, float64(http.StatusNotFound), body["statusCode"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
