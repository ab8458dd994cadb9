package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialWS connects a test client to the handler's server.
func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readEvent reads the next JSON event off the connection.
func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var raw map[string]any
	require.NoError(t, conn.ReadJSON(&raw))
	return raw
}

func TestWSHandler(t *testing.T) {
	t.Run("connected client receives broadcasts", func(t *testing.T) {
		registry := NewRegistry()
		hub := NewHub(registry, nil)
		server := httptest.NewServer(NewWSHandler(hub, registry, "", nil))
		defer server.Close()

		conn := dialWS(t, server)

		require.Eventually(t, func() bool {
			hub.mu.RLock()
			defer hub.mu.RUnlock()
			return len(hub.clients) == 1
		}, 2*time.Second, 10*time.Millisecond)

		task := testTask(t)
		hub.BroadcastTaskChanged(task)

		event := readEvent(t, conn)
		assert.Equal(t, EventTaskUpdated, event["type"])

		payload, ok := event["payload"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, task.ID.String(), payload["id"])
		assert.Equal(t, string(task.Status), payload["status"])
		assert.Equal(t, string(task.Priority), payload["priority"])
		assert.Equal(t, task.AssignedToID.String(), payload["assignedToId"])
	})

	t.Run("register message binds the connection for targeted events", func(t *testing.T) {
		registry := NewRegistry()
		hub := NewHub(registry, nil)
		server := httptest.NewServer(NewWSHandler(hub, registry, "", nil))
		defer server.Close()

		conn := dialWS(t, server)
		userID := uuid.New()

		msg, err := json.Marshal(ClientMessage{Type: MessageRegister, UserID: userID.String()})
		require.NoError(t, err)
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, msg))

		require.Eventually(t, func() bool {
			_, ok := registry.Lookup(userID)
			return ok
		}, 2*time.Second, 10*time.Millisecond)

		notification := testNotification(t, userID)
		hub.NotifyAssignee(userID, notification)

		event := readEvent(t, conn)
		assert.Equal(t, EventNotificationNew, event["type"])

		payload, ok := event["payload"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, notification.ID.String(), payload["id"])
		assert.Equal(t, userID.String(), payload["userId"])
		assert.Equal(t, notification.Message, payload["message"])
		assert.Equal(t, false, payload["read"])
	})

	t.Run("malformed and unknown messages are ignored", func(t *testing.T) {
		registry := NewRegistry()
		hub := NewHub(registry, nil)
		server := httptest.NewServer(NewWSHandler(hub, registry, "", nil))
		defer server.Close()

		conn := dialWS(t, server)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"subscribe"}`)))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"register","userId":"nope"}`)))

		// The connection stays open and unregistered; a broadcast still lands.
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 0, registry.Len())

		hub.BroadcastTaskChanged(testTask(t))
		event := readEvent(t, conn)
		assert.Equal(t, EventTaskUpdated, event["type"])
	})

	t.Run("disconnect removes the client and its registration", func(t *testing.T) {
		registry := NewRegistry()
		hub := NewHub(registry, nil)
		server := httptest.NewServer(NewWSHandler(hub, registry, "", nil))
		defer server.Close()

		conn := dialWS(t, server)
		userID := uuid.New()

		msg, err := json.Marshal(ClientMessage{Type: MessageRegister, UserID: userID.String()})
		require.NoError(t, err)
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, msg))

		require.Eventually(t, func() bool {
			_, ok := registry.Lookup(userID)
			return ok
		}, 2*time.Second, 10*time.Millisecond)

		require.NoError(t, conn.Close())

		require.Eventually(t, func() bool {
			_, ok := registry.Lookup(userID)
			return !ok && registry.Len() == 0
		}, 2*time.Second, 10*time.Millisecond)

		// Broadcasting after the disconnect must not panic or block.
		hub.BroadcastTaskChanged(testTask(t))
	})

	t.Run("rejects cross-origin upgrades when an origin is configured", func(t *testing.T) {
		registry := NewRegistry()
		hub := NewHub(registry, nil)
		server := httptest.NewServer(NewWSHandler(hub, registry, "https://app.example.com", nil))
		defer server.Close()

		url := "ws" + strings.TrimPrefix(server.URL, "http")

		header := http.Header{"Origin": []string{"https://evil.example.com"}}
		_, resp, err := websocket.DefaultDialer.Dial(url, header)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		header = http.Header{"Origin": []string{"https://app.example.com"}}
		conn, _, err := websocket.DefaultDialer.Dial(url, header)
		require.NoError(t, err)
		_ = conn.Close()
	})
}
