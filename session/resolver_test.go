package session

import "testing"

func TestResolverLoadingUntilFirstNotification(t *testing.T) {
	r := NewResolver()
	state, ident := r.Current()
	if state != Loading {
		t.Fatalf("expected loading before first notification, got %s", state)
	}
	if ident != nil {
		t.Fatalf("expected no identity while loading, got %+v", ident)
	}
}

func TestResolverSignedOut(t *testing.T) {
	r := NewResolver()
	r.Apply(nil)
	state, _ := r.Current()
	if state != Unauthenticated {
		t.Fatalf("expected unauthenticated, got %s", state)
	}
}

func TestResolverSignedIn(t *testing.T) {
	r := NewResolver()
	r.Apply(&Identity{UserID: "t123", Email: "tienda@example.com"})
	state, ident := r.Current()
	if state != Authenticated {
		t.Fatalf("expected authenticated, got %s", state)
	}
	if ident == nil || ident.UserID != "t123" {
		t.Fatalf("expected identity t123, got %+v", ident)
	}
}

func TestResolverRunConsumesStream(t *testing.T) {
	r := NewResolver()
	stream := make(chan *Identity, 2)
	stream <- &Identity{UserID: "t1"}
	stream <- nil
	close(stream)

	var states []State
	r.Run(stream, func(s State, _ *Identity) {
		states = append(states, s)
	})

	if len(states) != 2 || states[0] != Authenticated || states[1] != Unauthenticated {
		t.Fatalf("unexpected state sequence: %v", states)
	}
}
