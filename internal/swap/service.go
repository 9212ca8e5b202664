// Package swap implements the swap request lifecycle and the chat history read path.
package swap

import (
	"context"
	"strings"

	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrSwapNotFound   = errors.New("swap not found")
	ErrNotRecipient   = errors.New("only the receiving user can decide a swap")
	ErrAlreadyDecided = errors.New("swap already decided")
	ErrInvalidStatus  = errors.New("status must be accepted or rejected")
	ErrUserNotFound   = errors.New("user not found")
	ErrSelfSwap       = errors.New("cannot request a swap with yourself")
	ErrNotParticipant = errors.New("not a participant of this swap")
)

// Notifier is the part of the notification dispatcher the swap lifecycle triggers.
type Notifier interface {
	NotifySwapRequest(ctx context.Context, swapID, fromUserID, toUserID string) (*models.Notification, error)
	NotifySwapAccepted(ctx context.Context, swapID, fromUserID, toUserID string) (*models.Notification, error)
	NotifySwapRejected(ctx context.Context, swapID, fromUserID, toUserID string) (*models.Notification, error)
}

type Store interface {
	storage.UserDirectory
	storage.SwapLedger
	storage.MessageStore
}

type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

type CreateInput struct {
	ToUserEmail  string `json:"to_user_email" binding:"required,email"`
	OfferedSkill string `json:"offered_skill" binding:"required"`
	WantedSkill  string `json:"wanted_skill" binding:"required"`
	Message      string `json:"message"`
}

// Partner is the other side of an accepted swap, seen from the caller.
type Partner struct {
	SwapID     string        `json:"swap_id"`
	User       models.Sender `json:"user"`
	UserID     string        `json:"user_id"`
	MySkill    string        `json:"my_skill"`
	TheirSkill string        `json:"their_skill"`
}

func (s *Service) actor(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "swap: load user")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Create opens a pending swap from the caller to another user and notifies the receiver.
func (s *Service) Create(ctx context.Context, fromEmail string, in CreateInput) (*models.Swap, error) {
	from, err := s.actor(ctx, fromEmail)
	if err != nil {
		return nil, err
	}
	to, err := s.actor(ctx, in.ToUserEmail)
	if err != nil {
		return nil, err
	}
	if from.ID == to.ID {
		return nil, ErrSelfSwap
	}

	swap := &models.Swap{
		FromUserID:   from.ID,
		ToUserID:     to.ID,
		OfferedSkill: strings.TrimSpace(in.OfferedSkill),
		WantedSkill:  strings.TrimSpace(in.WantedSkill),
		Message:      in.Message,
		Status:       models.SwapPending,
	}
	if err := s.store.CreateSwap(ctx, swap); err != nil {
		return nil, errors.Wrap(err, "swap: create")
	}

	if _, err := s.notifier.NotifySwapRequest(ctx, swap.ID, from.ID, to.ID); err != nil {
		log.Warn().Err(err).Str("swap_id", swap.ID).Msg("swap request notification failed")
	}
	return swap, nil
}

// Decide applies the receiver's accept or reject. Notification failures never undo it.
func (s *Service) Decide(ctx context.Context, swapID, actorEmail string, status models.SwapStatus) (*models.Swap, error) {
	if status != models.SwapAccepted && status != models.SwapRejected {
		return nil, ErrInvalidStatus
	}
	actor, err := s.actor(ctx, actorEmail)
	if err != nil {
		return nil, err
	}

	current, err := s.store.FindSwapByID(ctx, swapID)
	if err != nil {
		return nil, errors.Wrap(err, "swap: load")
	}
	if current == nil {
		return nil, ErrSwapNotFound
	}
	if current.ToUserID != actor.ID {
		return nil, ErrNotRecipient
	}
	if !current.CanTransition(status) {
		return nil, ErrAlreadyDecided
	}

	decided, err := s.store.DecideSwap(ctx, swapID, status)
	switch {
	case errors.Is(err, storage.ErrNotPending):
		return nil, ErrAlreadyDecided
	case err != nil:
		return nil, errors.Wrap(err, "swap: decide")
	case decided == nil:
		return nil, ErrSwapNotFound
	}

	notify := s.notifier.NotifySwapRejected
	if status == models.SwapAccepted {
		notify = s.notifier.NotifySwapAccepted
	}
	if _, err := notify(ctx, decided.ID, decided.FromUserID, decided.ToUserID); err != nil {
		log.Warn().Err(err).Str("swap_id", decided.ID).Str("status", string(status)).Msg("swap decision notification failed")
	}
	log.Info().Str("swap_id", decided.ID).Str("status", string(status)).Msg("swap decided")
	return decided, nil
}

func (s *Service) ListForUser(ctx context.Context, email string) ([]models.Swap, error) {
	user, err := s.actor(ctx, email)
	if err != nil {
		return nil, err
	}
	swaps, err := s.store.ListSwapsForUser(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "swap: list")
	}
	return swaps, nil
}

// AcceptedPartners lists the caller's chat partners, one per accepted swap.
func (s *Service) AcceptedPartners(ctx context.Context, email string) ([]Partner, error) {
	user, err := s.actor(ctx, email)
	if err != nil {
		return nil, err
	}
	swaps, err := s.store.ListAcceptedSwapsForUser(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "swap: list accepted")
	}

	ids := make([]string, 0, len(swaps))
	for _, sw := range swaps {
		ids = append(ids, sw.OtherParticipant(user.ID))
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	partners := make([]Partner, 0, len(swaps))
	for _, sw := range swaps {
		otherID := sw.OtherParticipant(user.ID)
		other, ok := users[otherID]
		if !ok {
			continue
		}
		p := Partner{
			SwapID: sw.ID,
			UserID: otherID,
			User:   models.Sender{Name: other.Name, Email: other.Email, Avatar: other.Avatar()},
		}
		if sw.FromUserID == user.ID {
			p.MySkill, p.TheirSkill = sw.OfferedSkill, sw.WantedSkill
		} else {
			p.MySkill, p.TheirSkill = sw.WantedSkill, sw.OfferedSkill
		}
		partners = append(partners, p)
	}
	return partners, nil
}

// ChatHistory returns the messages of a swap in creation order. Only participants may read it.
func (s *Service) ChatHistory(ctx context.Context, swapID, email string) ([]models.MessageView, error) {
	user, err := s.actor(ctx, email)
	if err != nil {
		return nil, err
	}
	sw, err := s.store.FindSwapByID(ctx, swapID)
	if err != nil {
		return nil, errors.Wrap(err, "swap: load")
	}
	if sw == nil {
		return nil, ErrSwapNotFound
	}
	if !sw.IsParticipant(user.ID) {
		return nil, ErrNotParticipant
	}

	history, err := s.store.ListMessagesBySwap(ctx, swapID)
	if err != nil {
		return nil, errors.Wrap(err, "swap: history")
	}
	users, err := s.usersByID(ctx, []string{sw.FromUserID, sw.ToUserID})
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(history))
	for i := range history {
		var sender *models.User
		if u, ok := users[history[i].FromUserID]; ok {
			sender = &u
		}
		views = append(views, models.NewMessageView(&history[i], sender))
	}
	return views, nil
}

func (s *Service) usersByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	list, err := s.store.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "swap: load users")
	}
	out := make(map[string]models.User, len(list))
	for _, u := range list {
		out[u.ID] = u
	}
	return out, nil
}
