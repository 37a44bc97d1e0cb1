package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3. Bu sürede heartbeat
	// gelmezse bağlantı kopmuş sayılır.
	pongWait = 90 * time.Second

	// maxMessageSize: Client'tan gelen tek mesajın üst sınırı (byte).
	maxMessageSize = 4096

	// sendBufferSize: Buffer dolarsa client yavaş kabul edilip koparılır.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısını temsil eder.
//
// Her bağlantı için iki goroutine çalışır: ReadPump client'tan okur,
// WritePump send channel'ındaki mesajları yazar. gorilla/websocket aynı
// anda tek okuyucu ve tek yazıcıya izin verir.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
	mu     sync.Mutex // conn yazmalarını korur
}

func newClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// ReadPump, bağlantı kapanana kadar client mesajlarını okur.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Warn().Err(err).Int64("user_id", c.userID).Msg("[ws] failed to set read deadline")
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Int64("user_id", c.userID).Msg("[ws] unexpected close")
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Debug().Err(err).Int64("user_id", c.userID).Msg("[ws] invalid message")
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, client'tan gelen event'i işler. Bu kanal sadece push içindir;
// client'ın gönderebileceği tek anlamlı op heartbeat'tir.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Warn().Err(err).Int64("user_id", c.userID).Msg("[ws] failed to set read deadline")
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})
	default:
		log.Debug().Int64("user_id", c.userID).Str("op", event.Op).Msg("[ws] unknown op")
	}
}

// sendEvent, tek client'a event kuyruğa koyar.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Int64("user_id", c.userID).Msg("[ws] failed to marshal event")
		return
	}

	select {
	case c.send <- data:
	default:
		log.Warn().Int64("user_id", c.userID).Msg("[ws] send buffer full, dropping connection")
		go c.hub.Unregister(c)
	}
}

// WritePump, send channel'ından gelen mesajları bağlantıya yazar.
// Channel kapanınca (Hub client'ı çıkardı) close frame gönderip döner.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
