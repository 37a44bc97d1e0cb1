package ws

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/models"
)

// TokenValidator, handshake'te JWT doğrulaması için gereken tek metot.
// services paketine bağımlı olmamak için burada tanımlıdır (ws ← services).
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.Identity, error)
}

// ReadyProvider, bağlantı kurulunca gönderilen ready payload'ını üretir.
type ReadyProvider interface {
	ReadyState(ctx context.Context, userID int64) (ReadyData, error)
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub       *Hub
	validator TokenValidator
	ready     ReadyProvider
	upgrader  websocket.Upgrader
}

// NewHandler, yeni bir WebSocket handler oluşturur.
// allowedOrigins boşsa tüm origin'lere izin verilir (development).
func NewHandler(hub *Hub, validator TokenValidator, ready ReadyProvider, allowedOrigins []string) *Handler {
	return &Handler{
		hub:       hub,
		validator: validator,
		ready:     ready,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Tarayıcılar WebSocket handshake'inde özel header gönderemediği için
// access token query parametresi ile gelir: /ws?token=JWT
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	identity, err := h.validator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", identity.UserID).Msg("[ws] upgrade failed")
		return
	}

	client := newClient(h.hub, conn, identity.UserID)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	ready, err := h.ready.ReadyState(ctx, identity.UserID)
	cancel()
	if err != nil {
		log.Warn().Err(err).Int64("user_id", identity.UserID).Msg("[ws] failed to build ready payload")
		ready = ReadyData{UserID: identity.UserID}
	}
	client.sendEvent(Event{Op: OpReady, Data: ready})

	client.ReadPump()
}
