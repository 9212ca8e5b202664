package handler

import (
	"net/http"

	"skillswap/backend/internal/review"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AddReview(c *gin.Context) {
	var req review.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	rv, rating, err := h.Reviews.Add(c.Request.Context(), callerEmail(c), c.Param("id"), req)
	if err != nil {
		respondError(c, "add review", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": rv, "rating": rating})
}
