package chathub_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillswap/backend/internal/chathub"
	"skillswap/backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// serveHub starts a websocket endpoint backed by hub and hands each server-side
// client to the returned channel.
func serveHub(t *testing.T, hub *chathub.Hub) (*websocket.Conn, <-chan *chathub.WebSocketClient) {
	t.Helper()
	clients := make(chan *chathub.WebSocketClient, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := chathub.NewWebSocketClient(conn, hub)
		client.Run()
		clients <- client
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, clients
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, kind)
	var f frame
	require.NoError(t, json.Unmarshal(data, &f), "each frame holds exactly one JSON object: %s", data)
	return f
}

func TestWebSocketClient_OneEventPerFrame(t *testing.T) {
	hub := newTestHub(seededStore())
	conn, clients := serveHub(t, hub)
	<-clients

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"authenticate","payload":{"email":"a@example.com"}}`)))
	auth := readFrame(t, conn)
	assert.Equal(t, models.EventAuthenticated, auth.Event)
	assert.JSONEq(t, `{"success":true}`, string(auth.Payload))
	require.True(t, hub.Online(userA.Email))

	for _, id := range []string{"n1", "n2"} {
		require.True(t, hub.PushNotification(userA.Email, models.NotificationView{ID: id, Type: models.NotificationMessage}))
	}
	for _, id := range []string{"n1", "n2"} {
		f := readFrame(t, conn)
		assert.Equal(t, models.EventNotification, f.Event)
		var view models.NotificationView
		require.NoError(t, json.Unmarshal(f.Payload, &view))
		assert.Equal(t, id, view.ID)
	}
}

func TestWebSocketClient_CloseEndsConnection(t *testing.T) {
	hub := newTestHub(seededStore())
	conn, clients := serveHub(t, hub)
	client := <-clients

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"authenticate","payload":{"email":"a@example.com"}}`)))
	readFrame(t, conn)

	client.Close()
	assert.False(t, client.Send(models.ServerEvent{Event: models.EventNotification}), "a closed client refuses events")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure),
		"unexpected read error: %v", err)

	assert.Eventually(t, func() bool { return !hub.Online(userA.Email) }, 2*time.Second, 10*time.Millisecond)
}
