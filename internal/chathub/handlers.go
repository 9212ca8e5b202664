package chathub

import (
	"context"
	"strings"
	"time"

	"skillswap/backend/internal/metrics"
	"skillswap/backend/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	errAccessDenied  = "Access denied"
	errUserNotFound  = "User not found"
	errJoinFailed    = "Failed to join chat"
	errSendFailed    = "Failed to send message"
	errAuthFailed    = "Authentication failed"
	errTooManySends  = "Too many messages"
	errMessageLength = "Message too long"
	errEmptyMessage  = "Message is empty"
)

// Authenticate binds the session to the user owning email and makes it the routable
// session of that identity.
func (h *Hub) Authenticate(ctx context.Context, s *Session, p models.AuthenticatePayload) models.AuthenticatedReply {
	user, err := h.Users.FindUserByEmail(ctx, p.Email)
	var reply models.AuthenticatedReply
	switch {
	case err != nil:
		log.Error().Err(err).Str("email", p.Email).Msg("authenticate: user lookup failed")
		reply = models.AuthenticatedReply{Success: false, Error: errAuthFailed}
	case user == nil:
		reply = models.AuthenticatedReply{Success: false, Error: errUserNotFound}
	default:
		h.bind(s, user)
		reply = models.AuthenticatedReply{Success: true}
	}
	s.Emit(models.EventAuthenticated, reply)
	return reply
}

func (h *Hub) bind(s *Session, user *models.User) {
	if prev := s.Identity(); prev != "" && prev != user.Email {
		h.releaseRooms(s, prev)
	}
	s.bind(user)
	if replaced := h.Registry.Register(user.Email, s); replaced != nil {
		log.Debug().Str("email", user.Email).Str("session_id", s.ID()).
			Str("replaced_session_id", replaced.ID()).Msg("session superseded")
	}
	h.syncGauges()
	log.Info().Str("email", user.Email).Str("session_id", s.ID()).Msg("session authenticated")
}

// resolveUser picks the acting user: the session identity, else the userEmail the
// client supplied. A supplied email that differs from the session identity is refused.
func (h *Hub) resolveUser(ctx context.Context, s *Session, userEmail string) (*models.User, DenyReason, error) {
	identity := s.Identity()
	if identity != "" && userEmail != "" && !strings.EqualFold(identity, userEmail) {
		return nil, ReasonForbidden, nil
	}
	email := identity
	if email == "" {
		email = userEmail
	}
	if email == "" {
		return nil, ReasonUserNotFound, nil
	}
	user, err := h.Users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, ReasonInternal, err
	}
	if user == nil {
		return nil, ReasonUserNotFound, nil
	}
	return user, "", nil
}

// adopt gives an anonymous session the identity it joined a room with. It only becomes
// the routable session when the identity has none; an authenticated session keeps its
// route.
func (h *Hub) adopt(s *Session, user *models.User) {
	if _, ok := h.Registry.Resolve(user.Email); ok {
		s.bind(user)
		return
	}
	h.bind(s, user)
}

// ownsRooms reports whether s may change the room memberships of identity: it must be
// the routable session, or no session routes the identity at all.
func (h *Hub) ownsRooms(s *Session, identity string) bool {
	cur, ok := h.Registry.Resolve(identity)
	return !ok || cur == s
}

// releaseRooms forgets the session's rooms and, when s owns identity's memberships,
// removes identity from them.
func (h *Hub) releaseRooms(s *Session, identity string) {
	rooms := s.resetRooms()
	if !h.ownsRooms(s, identity) {
		return
	}
	for _, swapID := range rooms {
		h.Rooms.Leave(swapID, identity)
	}
}

// JoinChat admits the session's user into the chat of an accepted swap.
func (h *Hub) JoinChat(ctx context.Context, s *Session, p models.JoinChatPayload) models.JoinedChatReply {
	user, reason, err := h.resolveUser(ctx, s, p.UserEmail)
	if err != nil {
		log.Error().Err(err).Str("swap_id", p.SwapID).Msg("join-chat: user lookup failed")
		return h.rejectJoin(s, p.SwapID, errJoinFailed, ReasonInternal)
	}
	if reason == ReasonUserNotFound {
		return h.rejectJoin(s, p.SwapID, errUserNotFound, reason)
	}
	if reason != "" {
		return h.rejectJoin(s, p.SwapID, errAccessDenied, reason)
	}

	adm, err := h.Rooms.Join(ctx, p.SwapID, user)
	if err != nil {
		log.Error().Err(err).Str("swap_id", p.SwapID).Msg("join-chat: swap lookup failed")
		return h.rejectJoin(s, p.SwapID, errJoinFailed, ReasonInternal)
	}
	if !adm.Admitted {
		log.Info().Str("email", user.Email).Str("swap_id", p.SwapID).Str("reason", string(adm.Reason)).Msg("join-chat denied")
		return h.rejectJoin(s, p.SwapID, errAccessDenied, adm.Reason)
	}

	if s.Identity() == "" {
		h.adopt(s, user)
	}
	s.joined(p.SwapID)
	log.Debug().Str("email", user.Email).Str("swap_id", p.SwapID).Msg("joined chat")

	reply := models.JoinedChatReply{Success: true, SwapID: p.SwapID}
	s.Emit(models.EventJoinedChat, reply)
	return reply
}

func (h *Hub) rejectJoin(s *Session, swapID, msg string, reason DenyReason) models.JoinedChatReply {
	metrics.ChatRejectionsTotal.WithLabelValues(models.EventJoinChat, string(reason)).Inc()
	reply := models.JoinedChatReply{Success: false, SwapID: swapID, Error: msg, Reason: string(reason)}
	s.Emit(models.EventJoinedChat, reply)
	return reply
}

// SendMessage runs the message pipeline: authorize, persist, broadcast. A failing step
// stops the pipeline and only the sender hears about it.
func (h *Hub) SendMessage(ctx context.Context, s *Session, p models.SendMessagePayload) (*models.MessageView, *models.MessageErrorReply) {
	if !s.limiter.Allow() {
		return nil, h.rejectMessage(s, errTooManySends, ReasonRateLimited)
	}
	if strings.TrimSpace(p.Message) == "" {
		return nil, h.rejectMessage(s, errEmptyMessage, ReasonInvalidPayload)
	}
	if len(p.Message) > h.maxMessageLength {
		return nil, h.rejectMessage(s, errMessageLength, ReasonInvalidPayload)
	}

	user, reason, err := h.resolveUser(ctx, s, p.UserEmail)
	if err != nil {
		log.Error().Err(err).Str("swap_id", p.SwapID).Msg("send-message: user lookup failed")
		return nil, h.rejectMessage(s, errSendFailed, ReasonInternal)
	}
	if reason == ReasonUserNotFound {
		return nil, h.rejectMessage(s, errUserNotFound, reason)
	}
	if reason != "" {
		return nil, h.rejectMessage(s, errAccessDenied, reason)
	}

	swap, reason, err := h.Rooms.Authorize(ctx, p.SwapID, user)
	if err != nil {
		log.Error().Err(err).Str("swap_id", p.SwapID).Msg("send-message: swap lookup failed")
		return nil, h.rejectMessage(s, errSendFailed, ReasonInternal)
	}
	if reason != "" {
		log.Info().Str("email", user.Email).Str("swap_id", p.SwapID).Str("reason", string(reason)).Msg("send-message denied")
		return nil, h.rejectMessage(s, errAccessDenied, reason)
	}

	msg := &models.Message{
		SwapID:     swap.ID,
		FromUserID: user.ID,
		ToUserID:   swap.OtherParticipant(user.ID),
		Body:       p.Message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Messages.AppendMessage(ctx, msg); err != nil {
		log.Error().Err(err).Str("swap_id", swap.ID).Msg("send-message: persist failed")
		return nil, h.rejectMessage(s, errSendFailed, ReasonInternal)
	}

	view := models.NewMessageView(msg, user)
	delivered := h.Rooms.Broadcast(swap.ID, models.ServerEvent{Event: models.EventNewMessage, Payload: view})
	metrics.ChatMessagesTotal.Inc()
	log.Debug().Str("swap_id", swap.ID).Str("message_id", msg.ID).Int("delivered", delivered).Msg("message broadcast")
	return &view, nil
}

func (h *Hub) rejectMessage(s *Session, msg string, reason DenyReason) *models.MessageErrorReply {
	metrics.ChatRejectionsTotal.WithLabelValues(models.EventSendMessage, string(reason)).Inc()
	reply := models.MessageErrorReply{Error: msg, Reason: string(reason)}
	s.Emit(models.EventMessageError, reply)
	return &reply
}

// LeaveChat drops the session's identity from the room. Leaving a room never joined is fine.
// A superseded session only forgets its own membership.
func (h *Hub) LeaveChat(s *Session, p models.LeaveChatPayload) {
	if identity := s.Identity(); identity != "" && h.ownsRooms(s, identity) {
		h.Rooms.Leave(p.SwapID, identity)
	}
	s.left(p.SwapID)
}

// Disconnect releases the session. Room memberships are only dropped when the session
// was still the routable one for its identity; a superseded session leaves them to its
// successor.
func (h *Hub) Disconnect(s *Session) {
	_, removed := h.Registry.Unregister(s.ID())
	if identity := s.Identity(); identity != "" {
		h.releaseRooms(s, identity)
		if removed {
			log.Info().Str("email", identity).Str("session_id", s.ID()).Msg("session disconnected")
		}
	} else {
		s.resetRooms()
	}
	h.syncGauges()
}
