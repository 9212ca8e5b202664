package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// callerID resolves the authenticated user for the notification endpoints.
func (h *Handler) callerID(c *gin.Context) (string, bool) {
	user, err := h.Users.FindUserByEmail(c.Request.Context(), callerEmail(c))
	if err != nil {
		respondError(c, "load caller", err)
		return "", false
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return "", false
	}
	return user.ID, true
}

func (h *Handler) ListNotifications(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.Notifications.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, "list notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	n, err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, "mark notification read", err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	changed, err := h.Notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "mark all notifications read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": changed})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	count, err := h.Notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "unread count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
