// Package ws, WebSocket bağlantı yönetimi ve kullanıcıya özel gerçek zamanlı
// bildirim dağıtımını sağlar.
//
// Mimari:
//   - Hub: Tüm bağlantıları kullanıcı ID'sine göre tutan merkezi yapı
//   - Client: Her WebSocket bağlantısını temsil eder
//   - Event: Server → client iletilen mesaj formatı
//
// Event akışı:
//  1. Service bir bildirim/mesaj oluşturur → DB kayıt
//  2. Service, EventPublisher.BroadcastToUser ile hedef kullanıcıya push eder
//  3. Hub, event'i kullanıcının tüm açık sekmelerine iletir
//  4. Her client'ın WritePump'ı event'i WebSocket'e yazar
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Seq her outbound event'e verilen artan sayıdır; client eksik event
// tespit etmek için takip edebilir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir
)

// Server → Client operasyonları
const (
	OpReady              = "ready"               // Bağlantı kurulunca ilk gönderilen: okunmamış sayıları
	OpHeartbeatAck       = "heartbeat_ack"       // Heartbeat'e yanıt
	OpNotificationCreate = "notification_create" // Yeni bildirim
	OpMessageCreate      = "message_create"      // Kullanıcıya yeni mesaj geldi
	OpEnrollmentUpdate   = "enrollment_update"   // Kaydın durumu değişti
)

// ReadyData, OpReady payload'ı.
type ReadyData struct {
	UserID              int64 `json:"userId"`
	UnreadNotifications int   `json:"unreadNotifications"`
	UnreadMessages      int   `json:"unreadMessages"`
}
