package server

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/hrpulse/notify-relay/internal/config"
	"github.com/hrpulse/notify-relay/internal/relay"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:               "test",
		Port:                 "0",
		LogLevel:             "info",
		LogFormat:            "text",
		MaxConnections:       100,
		MaxConnectionsPerIP:  100,
		ConnectionsPerSecond: 1000,
		ConnectionBurst:      1000,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *relay.Registry) {
	t.Helper()

	registry := relay.NewRegistry(clockwork.NewRealClock())
	t.Cleanup(registry.Stop)

	srv := NewServer(cfg, registry)
	ts := httptest.NewServer(srv.echo)
	t.Cleanup(ts.Close)

	return ts, registry
}

type wsClient struct {
	conn     *websocket.Conn
	clientID string
}

// dialWS opens a relay connection and consumes the connection ack.
func dialWS(t *testing.T, ts *httptest.Server) *wsClient {
	t.Helper()

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var ack struct {
		Type     string `json:"type"`
		Message  string `json:"message"`
		ClientID string `json:"clientId"`
	}
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, "connection", ack.Type)

	return &wsClient{conn: conn, clientID: ack.ClientID}
}

// subscribe sends a subscribe frame and waits until it has taken effect by
// routing a probe notification back to itself. Frames are processed in order
// per connection, so the probe's echo proves the subscription applied.
func (c *wsClient) subscribe(t *testing.T, userID string) {
	t.Helper()

	require.NoError(t, c.conn.WriteJSON(map[string]string{"type": "subscribe", "userId": userID}))

	probe := fmt.Sprintf(`{"type":"notification","userId":%q,"notification":{"type":"announcement","title":"probe","message":"probe"}}`, userID)
	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte(probe)))

	env := c.readNotification(t)
	require.Equal(t, "probe", env["title"])
}

// readNotification reads the next frame and returns the inner notification.
func (c *wsClient) readNotification(t *testing.T) map[string]any {
	t.Helper()

	var frame struct {
		Type         string         `json:"type"`
		Notification map[string]any `json:"notification"`
	}
	c.conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, c.conn.ReadJSON(&frame))
	require.Equal(t, "notification", frame.Type)

	return frame.Notification
}
