package handlers

import (
	"net/http"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/services"
)

// MessageHandler, kullanıcılar arası mesajlaşma endpoint'leri.
// Tüm işlemler çağıranın kendi mesajlarıyla sınırlıdır.
type MessageHandler struct {
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Send godoc
// POST /messages
// Body: { "receiverId": 2, "content": "..." }
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.messageService.Send(r.Context(), identity.UserID, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, msg)
}

// Conversations godoc
// GET /messages/conversations
func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	conversations, err := h.messageService.Conversations(r.Context(), identity.UserID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, conversations)
}

// UnreadCount godoc
// GET /messages/unread-count
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	count, err := h.messageService.UnreadCount(r.Context(), identity.UserID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.CountResponse{Count: count})
}

// List godoc
// GET /messages?conversationWith=&page=&limit=
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	messages, err := h.messageService.List(r.Context(), identity.UserID, models.MessageFilter{
		Page:             page(r),
		ConversationWith: queryInt64(r, "conversationWith"),
	})
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, messages)
}

// Get godoc
// GET /messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	msg, err := h.messageService.Get(r.Context(), id, identity.UserID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, msg)
}

// MarkAsRead godoc
// PATCH /messages/{id}/read
func (h *MessageHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	msg, err := h.messageService.MarkAsRead(r.Context(), id, identity.UserID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, msg)
}

// MarkConversationAsRead godoc
// PATCH /messages/conversation/{userId}/read
func (h *MessageHandler) MarkConversationAsRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	peerID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	updated, err := h.messageService.MarkConversationAsRead(r.Context(), identity.UserID, peerID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.CountResponse{Count: int(updated)})
}
