package chathub

import (
	"context"
	"encoding/json"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/metrics"
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Store is the persistence the hub needs.
type Store interface {
	storage.UserDirectory
	storage.SwapLedger
	storage.MessageStore
}

type Options struct {
	// SendRate and SendBurst bound send-message per session.
	SendRate         float64
	SendBurst        int
	MaxMessageLength int
}

// Hub is the realtime gateway: it owns the connection registry and the chat rooms and
// dispatches client events to their handlers.
type Hub struct {
	Users    storage.UserDirectory
	Messages storage.MessageStore
	Registry *Registry
	Rooms    *RoomManager

	validate         *validator.Validate
	sendRate         rate.Limit
	sendBurst        int
	maxMessageLength int
}

func NewHub(store Store, opts Options) *Hub {
	if opts.SendRate <= 0 {
		opts.SendRate = 5
	}
	if opts.SendBurst <= 0 {
		opts.SendBurst = 10
	}
	if opts.MaxMessageLength <= 0 {
		opts.MaxMessageLength = config.DefaultMaxMessageLength
	}
	registry := NewRegistry()
	return &Hub{
		Users:            store,
		Messages:         store,
		Registry:         registry,
		Rooms:            NewRoomManager(store, registry),
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		sendRate:         rate.Limit(opts.SendRate),
		sendBurst:        opts.SendBurst,
		maxMessageLength: opts.MaxMessageLength,
	}
}

// NewSession creates the anonymous session state for a freshly connected client.
func (h *Hub) NewSession(client Client) *Session {
	return &Session{
		id:      uuid.New().String(),
		client:  client,
		limiter: rate.NewLimiter(h.sendRate, h.sendBurst),
		rooms:   make(map[string]struct{}),
	}
}

// Dispatch decodes one {"event", "payload"} frame and runs its handler. Every failure
// is answered on the originating session only.
func (h *Hub) Dispatch(ctx context.Context, s *Session, raw []byte) {
	if !gjson.ValidBytes(raw) {
		s.Emit(models.EventError, models.ErrorReply{Error: "Invalid payload"})
		return
	}
	event := gjson.GetBytes(raw, "event").String()
	payload := gjson.GetBytes(raw, "payload")

	switch event {
	case models.EventAuthenticate:
		var p models.AuthenticatePayload
		if err := h.decode(payload, &p); err != nil {
			s.Emit(models.EventAuthenticated, models.AuthenticatedReply{Success: false, Error: "Invalid payload"})
			return
		}
		h.Authenticate(ctx, s, p)

	case models.EventJoinChat:
		var p models.JoinChatPayload
		if err := h.decode(payload, &p); err != nil {
			h.rejectJoin(s, p.SwapID, "Invalid payload", ReasonInvalidPayload)
			return
		}
		h.JoinChat(ctx, s, p)

	case models.EventSendMessage:
		var p models.SendMessagePayload
		if err := h.decode(payload, &p); err != nil {
			h.rejectMessage(s, "Invalid payload", ReasonInvalidPayload)
			return
		}
		h.SendMessage(ctx, s, p)

	case models.EventLeaveChat:
		var p models.LeaveChatPayload
		if err := h.decode(payload, &p); err != nil {
			return
		}
		h.LeaveChat(s, p)

	default:
		log.Debug().Str("session_id", s.ID()).Str("event", event).Msg("unknown event")
		s.Emit(models.EventError, models.ErrorReply{Error: "Unknown event: " + event})
	}
}

func (h *Hub) decode(payload gjson.Result, v any) error {
	raw := payload.Raw
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

// PushNotification delivers a notification to the identity's live session, if any.
func (h *Hub) PushNotification(identity string, view models.NotificationView) bool {
	s, ok := h.Registry.Resolve(identity)
	if !ok {
		return false
	}
	return s.Emit(models.EventNotification, view)
}

// Online reports whether identity currently has a routable session.
func (h *Hub) Online(identity string) bool {
	_, ok := h.Registry.Resolve(identity)
	return ok
}

func (h *Hub) syncGauges() {
	metrics.OnlineIdentities.Set(float64(h.Registry.Count()))
}
