package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathID(t *testing.T) {
	var got int64
	r := chi.NewRouter()
	r.Get("/courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		got = id
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/courses/12", http.StatusNoContent},
		{"/courses/abc", http.StatusBadRequest},
		{"/courses/0", http.StatusBadRequest},
		{"/courses/-3", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, int64(12), got)
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?courseId=5&bad=-1&done=TRUE&open=0&other=maybe", nil)

	assert.Equal(t, int64(5), queryInt64(req, "courseId"))
	assert.Zero(t, queryInt64(req, "bad"))
	assert.Zero(t, queryInt64(req, "missing"))

	require.NotNil(t, queryBool(req, "done"))
	assert.True(t, *queryBool(req, "done"))
	require.NotNil(t, queryBool(req, "open"))
	assert.False(t, *queryBool(req, "open"))
	assert.Nil(t, queryBool(req, "other"))
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(pingerFunc(func(context.Context) error { return nil })).Live(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(pingerFunc(func(context.Context) error { return nil })).Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("database is locked") })).Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "database unavailable", decodeError(t, rec).Message)
}
