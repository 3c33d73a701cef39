// Package gate decides which screen an authenticated merchant sees, from the
// live configuration snapshot plus the one-shot checkout-success marker.
package gate

import (
	"sync"

	"carrito/models"
)

// State is the gate's screen decision.
type State int

const (
	// Loading holds until the config subscription delivers its first
	// snapshot.
	Loading State = iota
	// NeedsPlan shows plan selection: the config exists but carries no
	// paying plan.
	NeedsPlan
	// PaymentPending is the post-checkout interstitial: the redirect came
	// back successful but the billing webhook has not flipped the plan yet.
	PaymentPending
	// Ready exposes the main application.
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case NeedsPlan:
		return "needs_plan"
	case PaymentPending:
		return "payment_pending"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Gate re-evaluates on every configuration snapshot for the lifetime of the
// authenticated session, so an asynchronous webhook plan update (or a
// downgrade) moves the merchant without a remount.
type Gate struct {
	mu      sync.Mutex
	settled bool
	marker  bool
	state   State
}

// New builds a gate. successMarker is the one-shot redirect signal, already
// redeemed from its backing store by the caller so a refresh cannot
// re-trigger it.
func New(successMarker bool) *Gate {
	return &Gate{marker: successMarker}
}

// Apply feeds one configuration snapshot. A nil cfg means the document does
// not exist, which is a valid empty default with plan none.
func (g *Gate) Apply(cfg *models.Cliente) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.settled = true
	switch {
	case cfg.HasPlan():
		// Once the plan is live the marker has served its purpose; a later
		// downgrade must land on plan selection, not the interstitial.
		g.marker = false
		g.state = Ready
	case g.marker:
		g.state = PaymentPending
	default:
		g.state = NeedsPlan
	}
	return g.state
}

// Current returns Loading until the first snapshot has been applied.
func (g *Gate) Current() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.settled {
		return Loading
	}
	return g.state
}
