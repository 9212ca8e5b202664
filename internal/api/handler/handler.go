package handler

import (
	"errors"
	"net/http"

	"skillswap/backend/internal/chathub"
	"skillswap/backend/internal/config"
	"skillswap/backend/internal/notification"
	"skillswap/backend/internal/review"
	"skillswap/backend/internal/storage"
	"skillswap/backend/internal/swap"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler groups the HTTP endpoints and the services they call.
type Handler struct {
	Hub           *chathub.Hub
	Users         storage.UserDirectory
	Swaps         *swap.Service
	Reviews       *review.Service
	Notifications *notification.Service

	cfg *config.Config
}

func NewHandler(cfg *config.Config, hub *chathub.Hub, users storage.UserDirectory, swaps *swap.Service, reviews *review.Service, notifications *notification.Service) *Handler {
	return &Handler{
		Hub:           hub,
		Users:         users,
		Swaps:         swaps,
		Reviews:       reviews,
		Notifications: notifications,
		cfg:           cfg,
	}
}

// respondError maps service errors to HTTP statuses. Unknown errors are logged and hidden.
func respondError(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, swap.ErrSwapNotFound), errors.Is(err, notification.ErrNotFound),
		errors.Is(err, swap.ErrUserNotFound), errors.Is(err, review.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, swap.ErrNotRecipient), errors.Is(err, swap.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, swap.ErrAlreadyDecided):
		status = http.StatusConflict
	case errors.Is(err, swap.ErrInvalidStatus), errors.Is(err, swap.ErrSelfSwap),
		errors.Is(err, review.ErrInvalidRating), errors.Is(err, review.ErrSelfReview):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Str("email", callerEmail(c)).Msg("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
