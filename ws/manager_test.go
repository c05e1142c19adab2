package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	chat "chatline_backend/internal/services/chat"
	"chatline_backend/ws"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// presenceRecorder captures presence transitions in order.
type presenceRecorder struct {
	mu     sync.Mutex
	events []string
}

func (p *presenceRecorder) SetPresence(userID string, online bool, at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := "offline"
	if online {
		state = "online"
	}
	p.events = append(p.events, userID+":"+state)
	return nil
}

func (p *presenceRecorder) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

// newConnPair returns a connected server-side and client-side websocket.
func newConnPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-serverConns
	t.Cleanup(func() { serverConn.Close() })
	return serverConn, clientConn
}

func newClient(t *testing.T, m *ws.Manager, userID string) (*ws.Client, *websocket.Conn) {
	t.Helper()
	serverConn, clientConn := newConnPair(t)
	return &ws.Client{
		UserID:  userID,
		Conn:    serverConn,
		Send:    make(chan chat.Event, 8),
		Ctx:     context.Background(),
		Manager: m,
	}, clientConn
}

func TestRegisterSendUnregister(t *testing.T) {
	presence := &presenceRecorder{}
	m := ws.NewManager(presence)

	client, _ := newClient(t, m, "u1")
	m.Register(client)
	assert.True(t, m.IsConnected("u1"))

	delivered, err := m.Send("u1", chat.Event{Type: chat.EventNewMessage})
	require.NoError(t, err)
	assert.True(t, delivered)

	event := <-client.Send
	assert.Equal(t, chat.EventNewMessage, event.Type)

	m.Unregister(client)
	assert.False(t, m.IsConnected("u1"))
	assert.Equal(t, []string{"u1:online", "u1:offline"}, presence.snapshot())
}

func TestSendToOfflineUser(t *testing.T) {
	m := ws.NewManager(nil)

	delivered, err := m.Send("ghost", chat.Event{Type: chat.EventNewMessage})
	require.NoError(t, err)
	assert.False(t, delivered, "offline delivery is a non-event, not an error")
}

func TestLastConnectWins(t *testing.T) {
	m := ws.NewManager(nil)

	first, firstPeer := newClient(t, m, "u1")
	m.Register(first)

	second, _ := newClient(t, m, "u1")
	m.Register(second)

	// The displaced socket gets a going-away close.
	firstPeer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := firstPeer.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway),
		"expected a going-away close, got: %v", err)

	// Delivery lands on the new connection.
	delivered, err := m.Send("u1", chat.Event{Type: chat.EventNewMessage})
	require.NoError(t, err)
	assert.True(t, delivered)
	select {
	case <-second.Send:
	case <-time.After(time.Second):
		t.Fatal("event did not reach the new connection")
	}

	// The displaced client's late unregister must not evict its successor.
	m.Unregister(first)
	assert.True(t, m.IsConnected("u1"))
	assert.Equal(t, 1, m.ClientCount())
}

func TestSendFullBufferDropsClient(t *testing.T) {
	m := ws.NewManager(nil)

	client, peer := newClient(t, m, "u1")
	client.Send = make(chan chat.Event) // unbuffered, nobody reading
	m.Register(client)

	delivered, err := m.Send("u1", chat.Event{Type: chat.EventNewMessage})
	require.NoError(t, err)
	assert.False(t, delivered)

	// Teardown runs async; the client must end up unregistered.
	require.Eventually(t, func() bool {
		return !m.IsConnected("u1")
	}, 2*time.Second, 10*time.Millisecond)

	// The underlying connection is closed with the registry entry, not
	// left to linger until a read deadline fires.
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = peer.ReadMessage()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "timeout",
		"dropped client's connection should be closed, not timing out: %v", err)
}
