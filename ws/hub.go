package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/pkg/metrics"
)

// EventPublisher, service katmanının WebSocket event'leri göndermek için
// kullandığı interface. Service'ler Hub'ın concrete struct'ına değil buna
// bağımlıdır; testte sahte publisher kullanılır.
type EventPublisher interface {
	BroadcastToUser(userID int64, event Event)
	IsOnline(userID int64) bool
}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
//
// register/unregister channel'ları Run goroutine'i tarafından okunur;
// clients map'ine yazma sadece orada yapılır, okuma RLock ile her yerden.
type Hub struct {
	// clients: userID → Client set (bir kullanıcının birden fazla sekmesi olabilir).
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	seq atomic.Int64
}

// NewHub, yeni bir Hub oluşturur. Run ayrı goroutine'de başlatılmalıdır.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run, Hub'ın ana event loop'udur. Shutdown çağrılınca döner.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Register, client'ı Hub'a ekletir. Hub kapanmışsa false döner.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister, client'ı Hub'dan çıkartır. Hub kapanmışsa no-op.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true
	metrics.WSConnected()

	log.Debug().
		Int64("user_id", client.userID).
		Int("connections", len(h.clients[client.userID])).
		Msg("[ws] client connected")
}

// removeClient, client'ı çıkarır ve send channel'ını kapatır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	close(client.send)
	metrics.WSDisconnected()

	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
	log.Debug().
		Int64("user_id", client.userID).
		Int("remaining", len(clients)).
		Msg("[ws] client disconnected")
}

// BroadcastToUser, kullanıcının tüm bağlantılarına event gönderir.
// Buffer'ı dolu (yavaş) client'lar koparılır.
func (h *Hub) BroadcastToUser(userID int64, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("op", event.Op).Msg("[ws] failed to marshal user event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- data:
		default:
			go h.Unregister(client)
		}
	}
}

// IsOnline, kullanıcının en az bir açık bağlantısı var mı?
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// ConnectionCount, toplam açık bağlantı sayısı.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Shutdown, tüm bağlantıları kapatır ve Run döngüsünü sonlandırır.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, clients := range h.clients {
			for client := range clients {
				close(client.send)
				metrics.WSDisconnected()
			}
		}
		h.clients = make(map[int64]map[*Client]bool)
		log.Info().Msg("[ws] hub shut down, all connections closed")
	})
}
