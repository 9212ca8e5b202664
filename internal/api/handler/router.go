package handler

import (
	"net/http"

	"skillswap/backend/internal/metrics"
	"skillswap/backend/internal/mw"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires middleware, the REST API and the websocket endpoint.
func SetupRouter(h *Handler, rl *mw.RL) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	if rl != nil {
		r.Use(mw.RateLimit(rl))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")
	if h.cfg.IsDev() {
		api.POST("/auth/token", h.IssueDevToken)
	}

	authed := api.Group("")
	authed.Use(h.AuthMiddleware())

	authed.POST("/swaps", h.CreateSwap)
	authed.GET("/swaps", h.ListSwaps)
	authed.GET("/swaps/accepted-users", h.AcceptedUsers)
	authed.PUT("/swaps/:id/status", h.UpdateSwapStatus)

	authed.GET("/chat/:swap_id", h.ChatHistory)

	authed.POST("/users/:id/reviews", h.AddReview)

	authed.GET("/notifications", h.ListNotifications)
	authed.GET("/notifications/unread-count", h.UnreadCount)
	authed.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
	authed.PUT("/notifications/:id/read", h.MarkNotificationRead)

	return r
}
