package chathub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"skillswap/backend/internal/config"
	"skillswap/backend/internal/metrics"
	"skillswap/backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 << 10
)

// WebSocketClient implements Client over a gorilla websocket connection.
type WebSocketClient struct {
	Conn    *websocket.Conn
	Hub     *Hub
	session *Session

	send      chan models.ServerEvent
	done      chan struct{}
	closeOnce sync.Once
}

func NewWebSocketClient(conn *websocket.Conn, hub *Hub) *WebSocketClient {
	c := &WebSocketClient{
		Conn: conn,
		Hub:  hub,
		send: make(chan models.ServerEvent, config.SendBufferSize),
		done: make(chan struct{}),
	}
	c.session = hub.NewSession(c)
	return c
}

func (c *WebSocketClient) Session() *Session { return c.session }

// Send never blocks: a closed connection or a full buffer drops the event.
func (c *WebSocketClient) Send(evt models.ServerEvent) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- evt:
		return true
	default:
		log.Warn().Str("session_id", c.session.ID()).Str("event", evt.Event).Msg("send buffer full, dropping event")
		return false
	}
}

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	metrics.WsConnections.Inc()
	go c.writePump()
	go c.readPump()
}

// Close stops the write pump, which closes the socket.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Disconnect(c.session)
		c.Close()
		c.Conn.Close()
		metrics.WsConnections.Dec()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Handlers run to completion even if the peer goes away mid-event.
	ctx := context.Background()
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("session_id", c.session.ID()).Msg("websocket read failed")
			}
			break
		}
		c.Hub.Dispatch(ctx, c.session, message)
	}
}

// writePump serializes queued events, one JSON object per frame, and keeps the
// connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case evt := <-c.send:
			data, err := json.Marshal(evt)
			if err != nil {
				log.Error().Err(err).Str("event", evt.Event).Msg("encode event")
				continue
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
