package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Stattrackrr/stattrackr/internal/client"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

type fakeHub struct {
	mu           sync.Mutex
	unregistered []*client.Client
}

func (h *fakeHub) Unregister(c *client.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregistered = append(h.unregistered, c)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialClient spins up a server that wraps the accepted connection in a
// Client with running pumps, and returns the peer side of the connection.
func dialClient(t *testing.T, hub client.Hub) (*client.Client, *websocket.Conn) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	clientCh := make(chan *client.Client, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}

		c := client.NewClient("test-client", conn, hub)
		clientCh <- c
		go c.ReadPump(ctx)
		go c.WritePump(ctx)
	}))
	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { peer.Close() })

	select {
	case c := <-clientCh:
		return c, peer
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client")
		return nil, nil
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestSubscribeSetsFilter(t *testing.T) {
	c, peer := dialClient(t, &fakeHub{})

	err := peer.WriteJSON(models.ClientMessage{
		Type: models.MessageTypeSubscribe,
		Payload: map[string]interface{}{
			"players": []string{"Jayson Tatum"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tatum := models.BoardUpdate{Market: "player_prop", PlayerName: "Jayson Tatum"}
	other := models.BoardUpdate{Market: "player_prop", PlayerName: "Damian Lillard"}

	waitFor(t, func() bool { return c.MatchesFilter(tatum) && !c.MatchesFilter(other) })
}

func TestUnsubscribeClearsFilter(t *testing.T) {
	c, peer := dialClient(t, &fakeHub{})

	c.SetFilter(&models.SubscriptionFilter{Players: []string{"Jayson Tatum"}})

	other := models.BoardUpdate{Market: "player_prop", PlayerName: "Damian Lillard"}
	if c.MatchesFilter(other) {
		t.Fatal("filter should exclude other players before unsubscribe")
	}

	if err := peer.WriteJSON(models.ClientMessage{Type: models.MessageTypeUnsubscribe}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitFor(t, func() bool { return c.MatchesFilter(other) })
}

func TestWritePumpDeliversMessages(t *testing.T) {
	c, peer := dialClient(t, &fakeHub{})

	sent := models.ServerMessage{
		Type:      models.MessageTypeBoardUpdate,
		Payload:   map[string]interface{}{"market": "spread"},
		Timestamp: time.Now(),
	}
	if !c.TrySend(sent) {
		t.Fatal("TrySend failed on empty buffer")
	}

	var got models.ServerMessage
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := peer.ReadJSON(&got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != models.MessageTypeBoardUpdate {
		t.Errorf("expected type %s, got %s", models.MessageTypeBoardUpdate, got.Type)
	}
}

func TestHeartbeatReturnsStats(t *testing.T) {
	_, peer := dialClient(t, &fakeHub{})

	if err := peer.WriteJSON(models.ClientMessage{Type: models.MessageTypeHeartbeat}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got models.ServerMessage
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := peer.ReadJSON(&got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != models.MessageTypeHeartbeat {
		t.Errorf("expected type %s, got %s", models.MessageTypeHeartbeat, got.Type)
	}
}

func TestUnknownMessageTypeReturnsError(t *testing.T) {
	_, peer := dialClient(t, &fakeHub{})

	if err := peer.WriteJSON(models.ClientMessage{Type: "bogus"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got models.ServerMessage
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := peer.ReadJSON(&got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != models.MessageTypeError {
		t.Errorf("expected type %s, got %s", models.MessageTypeError, got.Type)
	}
}

func TestTrySendReportsFullBuffer(t *testing.T) {
	c := client.NewClient("buffered", nil, &fakeHub{})

	msg := models.ServerMessage{Type: models.MessageTypeBoardUpdate}
	sent := 0
	for c.TrySend(msg) {
		sent++
		if sent > 10000 {
			t.Fatal("buffer never filled")
		}
	}

	if sent != 256 {
		t.Errorf("expected buffer capacity 256, got %d", sent)
	}
}

func TestNilFilterMatchesEverything(t *testing.T) {
	c := client.NewClient("open", nil, &fakeHub{})

	updates := []models.BoardUpdate{
		{Market: "player_prop", PlayerName: "Jayson Tatum"},
		{Market: "moneyline", Team: "BOS"},
	}
	for _, u := range updates {
		if !c.MatchesFilter(u) {
			t.Errorf("unfiltered client should match %+v", u)
		}
	}
}
