package models

import (
	"strings"
	"time"
)

// MaxMessageLength, bir mesajın en fazla karakter sayısı.
const MaxMessageLength = 5000

// Message, iki kullanıcı arasındaki özel mesaj.
type Message struct {
	ID         int64        `json:"id"`
	SenderID   int64        `json:"senderId"`
	ReceiverID int64        `json:"receiverId"`
	Content    string       `json:"content"`
	IsRead     bool         `json:"isRead"`
	SentAt     time.Time    `json:"sentAt"`
	Sender     *UserSummary `json:"sender,omitempty"`
	Receiver   *UserSummary `json:"receiver,omitempty"`
}

// Conversation, kullanıcının bir karşı tarafla olan konuşmasının özeti.
type Conversation struct {
	User          UserSummary `json:"user"`
	LastMessage   Message     `json:"lastMessage"`
	UnreadCount   int         `json:"unreadCount"`
	LastMessageAt time.Time   `json:"lastMessageAt"`
}

// CreateMessageRequest, mesaj gönderme isteği.
type CreateMessageRequest struct {
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
}

// Validate, CreateMessageRequest geçerlilik kontrolü.
func (r *CreateMessageRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.ReceiverID <= 0 {
		return invalid("receiverId must be a positive number")
	}
	return validateLength("content", r.Content, 1, MaxMessageLength)
}

// MessageFilter, mesaj listesi filtreleri. ConversationWith > 0 ise sadece o
// kullanıcıyla olan konuşma döner.
type MessageFilter struct {
	Page
	ConversationWith int64
}

// CountResponse, "unread-count" endpoint'lerinin yanıtı.
type CountResponse struct {
	Count int `json:"count"`
}
