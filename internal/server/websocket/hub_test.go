package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func TestHubBroadcast(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go hub.Run(ctx)

	client := NewClient("test-1", hub, nil)
	if !hub.Register(client) {
		t.Fatal("register refused")
	}
	if count := hub.ClientCount(); count != 1 {
		t.Fatalf("expected 1 client, got %d", count)
	}

	hub.Broadcast(Message{Type: "refinery.updated", Data: map[string]any{"id": "ryazan"}})

	select {
	case received := <-client.send:
		if received.Type != "refinery.updated" {
			t.Errorf("expected refinery.updated, got %s", received.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
	}
}

func TestHubShutdown(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c1, c2 := NewClient("a", hub, nil), NewClient("b", hub, nil)
	hub.Register(c1)
	hub.Register(c2)

	cancel()
	<-done

	if count := hub.ClientCount(); count != 0 {
		t.Errorf("expected 0 clients after shutdown, got %d", count)
	}
	if _, open := <-c1.send; open {
		t.Error("expected send queue to be closed")
	}
	if hub.Register(NewClient("late", hub, nil)) {
		t.Error("register after shutdown must fail")
	}
}

func TestHubDisconnectsSlowClient(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	slow := NewClient("slow", hub, nil)
	hub.Register(slow)
	for range cap(slow.send) + 1 {
		hub.Broadcast(Message{Type: "staging.changed"})
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not disconnected")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubClientCountCallback(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)

	var last atomic.Int64
	hub.OnClientCount(func(n int) { last.Store(int64(n)) })

	c := NewClient("a", hub, nil)
	hub.Register(c)
	if last.Load() != 1 {
		t.Errorf("expected callback with 1, got %d", last.Load())
	}
	hub.Unregister(c)
	if last.Load() != 0 {
		t.Errorf("expected callback with 0, got %d", last.Load())
	}
	hub.Unregister(c) // second unregister is harmless
}

func TestServeWSEndToEnd(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	upgrader := &websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, upgrader, &Message{Type: "client.connected"})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var welcome Message
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != "client.connected" {
		t.Errorf("expected welcome frame, got %s", welcome.Type)
	}

	hub.Broadcast(Message{Seq: 7, Type: "publish.completed"})

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if msg.Type != "publish.completed" || msg.Seq != 7 {
		t.Errorf("unexpected message %+v", msg)
	}
}
