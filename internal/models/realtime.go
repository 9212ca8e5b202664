package models

import "time"

// Event names of the realtime protocol.
const (
	EventAuthenticate  = "authenticate"
	EventAuthenticated = "authenticated"
	EventJoinChat      = "join-chat"
	EventJoinedChat    = "joined-chat"
	EventLeaveChat     = "leave-chat"
	EventSendMessage   = "send-message"
	EventNewMessage    = "new-message"
	EventMessageError  = "message-error"
	EventNotification  = "notification"
	EventError         = "error"
)

// ServerEvent is the envelope written to a client: {"event": ..., "payload": ...}.
type ServerEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Client -> server payloads. Required fields are enforced by the gateway before dispatch.

type AuthenticatePayload struct {
	Email string `json:"email" validate:"required,email"`
}

type JoinChatPayload struct {
	SwapID    string `json:"swapId" validate:"required"`
	UserEmail string `json:"userEmail" validate:"omitempty,email"`
}

type LeaveChatPayload struct {
	SwapID string `json:"swapId" validate:"required"`
}

type SendMessagePayload struct {
	SwapID    string `json:"swapId" validate:"required"`
	Message   string `json:"message" validate:"required"`
	UserEmail string `json:"userEmail" validate:"omitempty,email"`
}

// Server -> client payloads.

type AuthenticatedReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type JoinedChatReply struct {
	Success bool   `json:"success"`
	SwapID  string `json:"swapId,omitempty"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type MessageErrorReply struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type ErrorReply struct {
	Error string `json:"error"`
}

// Sender carries the display fields of a message author.
type Sender struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// MessageView is the fully populated message sent as new-message and returned by history.
type MessageView struct {
	ID         string    `json:"id"`
	SwapID     string    `json:"swap_id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	Sender     Sender    `json:"sender"`
}

// NewMessageView joins a persisted message with its sender record. sender may be nil.
func NewMessageView(m *Message, sender *User) MessageView {
	v := MessageView{
		ID:         m.ID,
		SwapID:     m.SwapID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		Message:    m.Body,
		CreatedAt:  m.CreatedAt,
		Sender:     Sender{Avatar: PlaceholderAvatar},
	}
	if sender != nil {
		v.Sender = Sender{Name: sender.Name, Email: sender.Email, Avatar: sender.Avatar()}
	}
	return v
}

type NotificationView struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      NotificationData `json:"data"`
	CreatedAt time.Time        `json:"created_at"`
}
