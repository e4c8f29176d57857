package observer

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Type    string         `json:"type"`
	Tick    int64          `json:"tick"`
	Payload map[string]int `json:"payload"`
}

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestNewClientGetsLatestFrame(t *testing.T) {
	hub, srv, _ := startHub(t)
	ctx := context.Background()

	require.NoError(t, hub.Publish(ctx, "snapshot", 1, map[string]int{"units": 4}))
	require.NoError(t, hub.Publish(ctx, "snapshot", 2, map[string]int{"units": 5}))

	conn := dial(t, srv)
	f := readFrame(t, conn)
	assert.Equal(t, "snapshot", f.Type)
	assert.Equal(t, int64(2), f.Tick)
	assert.Equal(t, 5, f.Payload["units"])
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub, srv, _ := startHub(t)
	ctx := context.Background()

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(ctx, "snapshot", 7, map[string]int{"work": 3}))
	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		assert.Equal(t, int64(7), f.Tick)
		assert.Equal(t, 3, f.Payload["work"])
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, srv, _ := startHub(t)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStoppedHub(t *testing.T) {
	hub, srv, cancel := startHub(t)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	assert.ErrorIs(t, hub.Publish(context.Background(), "snapshot", 1, nil), ErrStopped)
}

func TestPublishRejectsUnencodablePayload(t *testing.T) {
	hub, _, _ := startHub(t)
	err := hub.Publish(context.Background(), "snapshot", 1, make(chan int))
	assert.Error(t, err)
}
