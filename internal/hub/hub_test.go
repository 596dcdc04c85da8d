package hub_test

import (
	"context"
	"testing"
	"time"

	"github.com/Stattrackrr/stattrackr/internal/client"
	"github.com/Stattrackrr/stattrackr/internal/hub"
	"github.com/Stattrackrr/stattrackr/pkg/models"
)

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

func startHub(t *testing.T) *hub.Hub {
	t.Helper()
	h := hub.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func TestRegisterAndUnregister(t *testing.T) {
	h := startHub(t)

	c := client.NewClient("c1", nil, h)
	h.Register(c)
	waitFor(t, func() bool { return h.GetClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.GetClientCount() == 0 })

	// Unregister closes the send channel
	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestBroadcastReachesMatchingClients(t *testing.T) {
	h := startHub(t)

	open := client.NewClient("open", nil, h)
	filtered := client.NewClient("filtered", nil, h)
	filtered.SetFilter(&models.SubscriptionFilter{Players: []string{"Damian Lillard"}})

	h.Register(open)
	h.Register(filtered)
	waitFor(t, func() bool { return h.GetClientCount() == 2 })

	h.Broadcast(models.BoardUpdate{Market: "player_prop", PlayerName: "Jayson Tatum", StatType: "points"})

	select {
	case msg := <-open.Send:
		if msg.Type != models.MessageTypeBoardUpdate {
			t.Errorf("expected type %s, got %s", models.MessageTypeBoardUpdate, msg.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("open client never received broadcast")
	}

	if len(filtered.Send) != 0 {
		t.Errorf("filtered client should not receive non-matching update")
	}
}

func TestSlowClientDisconnected(t *testing.T) {
	h := startHub(t)

	slow := client.NewClient("slow", nil, h)
	h.Register(slow)
	waitFor(t, func() bool { return h.GetClientCount() == 1 })

	// Fill the send buffer so the next broadcast cannot be queued
	for slow.TrySend(models.ServerMessage{Type: models.MessageTypeBoardUpdate}) {
	}

	h.Broadcast(models.BoardUpdate{Market: "moneyline", Team: "BOS"})

	waitFor(t, func() bool { return h.GetClientCount() == 0 })

	metrics := h.GetMetrics()
	if metrics["total_connections"] != 1 {
		t.Errorf("expected total_connections 1, got %d", metrics["total_connections"])
	}
}

func TestShutdownClosesClients(t *testing.T) {
	h := hub.New()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := client.NewClient("c1", nil, h)
	h.Register(c)
	waitFor(t, func() bool { return h.GetClientCount() == 1 })

	cancel()

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected closed send channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel not closed on shutdown")
	}
}
