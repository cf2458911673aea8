package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 4), userID: uuid.New()}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	n := NewNotifier(hub)
	id := uuid.New()
	n.PassportReady(id, 3)

	select {
	case msg := <-c.send:
		var evt struct {
			Type string            `json:"type"`
			Data PassportReadyData `json:"data"`
		}
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Type != EventPassportReady || evt.Data.UserID != id || evt.Data.Skills != 3 {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no message delivered")
	}

	hub.Unregister(c)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	slow := &Client{hub: hub, send: make(chan []byte), userID: uuid.New()}
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast([]byte(`{}`))
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestNotifier_NilHub(t *testing.T) {
	var n *Notifier
	n.OnboardingProgress(uuid.New(), 1, 2, 1)
	NewNotifier(nil).PassportReady(uuid.New(), 0)
}

func TestHub_RegistrationAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 300; i++ {
			c := &Client{hub: hub, send: make(chan []byte, 1), userID: uuid.New()}
			hub.Register(c)
			hub.Unregister(c)
			if _, ok := <-c.send; ok {
				t.Errorf("send channel left open after shutdown")
				return
			}
		}
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("register or unregister blocked after shutdown")
	}
}
