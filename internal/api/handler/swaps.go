package handler

import (
	"net/http"

	"skillswap/backend/internal/models"
	"skillswap/backend/internal/swap"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateSwap(c *gin.Context) {
	var req swap.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	created, err := h.Swaps.Create(c.Request.Context(), callerEmail(c), req)
	if err != nil {
		respondError(c, "create swap", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListSwaps(c *gin.Context) {
	swaps, err := h.Swaps.ListForUser(c.Request.Context(), callerEmail(c))
	if err != nil {
		respondError(c, "list swaps", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swaps": swaps})
}

// UpdateSwapStatus lets the receiver accept or reject a pending swap.
func (h *Handler) UpdateSwapStatus(c *gin.Context) {
	var req struct {
		Status models.SwapStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	decided, err := h.Swaps.Decide(c.Request.Context(), c.Param("id"), callerEmail(c), req.Status)
	if err != nil {
		respondError(c, "decide swap", err)
		return
	}
	c.JSON(http.StatusOK, decided)
}

func (h *Handler) AcceptedUsers(c *gin.Context) {
	partners, err := h.Swaps.AcceptedPartners(c.Request.Context(), callerEmail(c))
	if err != nil {
		respondError(c, "accepted users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": partners})
}

func (h *Handler) ChatHistory(c *gin.Context) {
	history, err := h.Swaps.ChatHistory(c.Request.Context(), c.Param("swap_id"), callerEmail(c))
	if err != nil {
		respondError(c, "chat history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": history})
}
