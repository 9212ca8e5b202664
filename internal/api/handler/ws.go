package handler

import (
	"context"
	"net/http"

	"skillswap/backend/internal/chathub"
	"skillswap/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (h *Handler) upgrader() *websocket.Upgrader {
	allowed := h.cfg.WS.AllowedOrigin
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowed == "*" || origin == "" || origin == allowed
		},
	}
}

// ServeWebSocket upgrades the connection. Sessions start anonymous and identify with the
// authenticate event; a valid ?token= authenticates right away.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := chathub.NewWebSocketClient(conn, h.Hub)
	if token := c.Query("token"); token != "" {
		if email, err := ParseToken(token, h.cfg.JWT.Secret); err == nil {
			h.Hub.Authenticate(context.Background(), client.Session(), models.AuthenticatePayload{Email: email})
		} else {
			log.Debug().Err(err).Msg("websocket token rejected, session stays anonymous")
		}
	}
	client.Run()
}
