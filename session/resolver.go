// Package session resolves the current identity from the auth state stream.
// The resolver starts indeterminate and refuses to answer until the first
// notification arrives, so callers never act on a guessed auth state.
package session

import "sync"

// State is the resolver's discriminated result.
type State int

const (
	// Loading means no auth notification has arrived yet. Neither the
	// authenticated nor the unauthenticated surface may be shown.
	Loading State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// Identity is the resolved merchant identity.
type Identity struct {
	UserID string
	Email  string
}

// Resolver tracks auth state for one connection. Feed it every auth-state
// notification; Current answers Loading until the first one lands.
type Resolver struct {
	mu      sync.Mutex
	settled bool
	ident   *Identity
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Apply records an auth-state notification. A nil identity means signed out.
func (r *Resolver) Apply(ident *Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settled = true
	r.ident = ident
}

// Current returns the resolved state and, when authenticated, the identity.
func (r *Resolver) Current() (State, *Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case !r.settled:
		return Loading, nil
	case r.ident == nil:
		return Unauthenticated, nil
	default:
		return Authenticated, r.ident
	}
}

// Run consumes an auth-state stream until it closes. Each delivery settles
// the resolver; onChange (optional) fires after every notification.
func (r *Resolver) Run(stream <-chan *Identity, onChange func(State, *Identity)) {
	for ident := range stream {
		r.Apply(ident)
		if onChange != nil {
			onChange(r.Current())
		}
	}
}
