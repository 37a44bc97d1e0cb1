package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/fireshield/models"
)

type stubValidator struct{}

func (stubValidator) ValidateAccessToken(token string) (*models.Identity, error) {
	if token != "good" {
		return nil, errors.New("invalid")
	}
	return &models.Identity{UserID: 7, Role: models.RoleLearner}, nil
}

type stubReady struct{}

func (stubReady) ReadyState(_ context.Context, userID int64) (ReadyData, error) {
	return ReadyData{UserID: userID, UnreadNotifications: 2, UnreadMessages: 1}, nil
}

func startServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	h := NewHandler(hub, stubValidator{}, stubReady{}, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleConnection))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func TestHandler_RejectsInvalidToken(t *testing.T) {
	_, srv := startServer(t)

	_, resp, err := dial(t, srv, "bad")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_ReadyHeartbeatAndPush(t *testing.T) {
	hub, srv := startServer(t)

	conn, _, err := dial(t, srv, "good")
	require.NoError(t, err)
	defer conn.Close()

	ready := readEvent(t, conn)
	assert.Equal(t, OpReady, ready.Op)
	data := ready.Data.(map[string]any)
	assert.EqualValues(t, 7, data["userId"])
	assert.EqualValues(t, 2, data["unreadNotifications"])

	require.Eventually(t, func() bool { return hub.IsOnline(7) }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(Event{Op: OpHeartbeat}))
	assert.Equal(t, OpHeartbeatAck, readEvent(t, conn).Op)

	hub.BroadcastToUser(7, Event{Op: OpNotificationCreate, Data: map[string]string{"title": "hi"}})
	pushed := readEvent(t, conn)
	assert.Equal(t, OpNotificationCreate, pushed.Op)
	assert.Positive(t, pushed.Seq)

	// Başka kullanıcıya giden event bu bağlantıya düşmez.
	hub.BroadcastToUser(8, Event{Op: OpMessageCreate})
	assert.False(t, hub.IsOnline(8))
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub, srv := startServer(t)

	conn, _, err := dial(t, srv, "good")
	require.NoError(t, err)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownIsIdempotent(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Shutdown()
	hub.Shutdown()
	assert.False(t, hub.Register(&Client{send: make(chan []byte, 1)}))
}
