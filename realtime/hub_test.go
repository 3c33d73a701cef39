package realtime

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		Topic:  "notify:t1",
		UserID: "t1",
	}

	hub.Register(client)

	data := []byte(`{"action":"notify","id":"n1","type":"success","text":"hola"}`)
	hub.Broadcast("notify:t1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.Unregister(client)

	// the hub closes the send channel on unregister
	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected closed channel after unregister")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for channel close")
	}
}

func TestHubTopicsAreIsolated(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 10), Topic: "notify:a", UserID: "a"}
	b := &Client{Send: make(chan []byte, 10), Topic: "notify:b", UserID: "b"}
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast("notify:a", []byte("solo-a"))

	select {
	case got := <-a.Send:
		if string(got) != "solo-a" {
			t.Fatalf("unexpected payload %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message on topic a")
	}

	select {
	case got := <-b.Send:
		t.Fatalf("topic b must not receive %s", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Send: make(chan []byte, 10), Topic: "notify:t1", UserID: "t1"}
	hub.Register(client)

	hub.Stop()
	hub.Stop() // idempotent

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected closed channel after stop")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	// operations after stop return instead of blocking
	hub.Broadcast("notify:t1", []byte("tarde"))
	hub.Register(&Client{Send: make(chan []byte, 1), Topic: "notify:t2"})
}
