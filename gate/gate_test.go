package gate

import (
	"testing"

	"carrito/models"
)

func TestGateLoadingUntilFirstSnapshot(t *testing.T) {
	g := New(false)
	if got := g.Current(); got != Loading {
		t.Fatalf("expected loading before first snapshot, got %s", got)
	}
}

func TestGateNoPlan(t *testing.T) {
	g := New(false)
	g.Apply(&models.Cliente{TiendaID: "t1", Plan: models.PlanNone})
	if got := g.Current(); got != NeedsPlan {
		t.Fatalf("expected needs_plan, got %s", got)
	}
}

func TestGateMissingConfigCountsAsNoPlan(t *testing.T) {
	g := New(false)
	if got := g.Apply(nil); got != NeedsPlan {
		t.Fatalf("expected needs_plan for missing config, got %s", got)
	}
}

func TestGateMarkerShowsInterstitial(t *testing.T) {
	g := New(true)
	if got := g.Apply(&models.Cliente{TiendaID: "t1"}); got != PaymentPending {
		t.Fatalf("expected payment_pending with marker, got %s", got)
	}
}

func TestGatePlanFlipWhileMounted(t *testing.T) {
	g := New(true)
	g.Apply(&models.Cliente{TiendaID: "t1"})
	if got := g.Current(); got != PaymentPending {
		t.Fatalf("expected payment_pending first, got %s", got)
	}

	// the billing webhook lands, the config subscription re-fires
	if got := g.Apply(&models.Cliente{TiendaID: "t1", Plan: models.PlanEsencial}); got != Ready {
		t.Fatalf("expected ready after plan flip, got %s", got)
	}
}

func TestGateMarkerClearedAfterReady(t *testing.T) {
	g := New(true)
	g.Apply(&models.Cliente{TiendaID: "t1", Plan: models.PlanPremium})
	if got := g.Current(); got != Ready {
		t.Fatalf("expected ready, got %s", got)
	}

	// a downgrade must land on plan selection, not the interstitial
	if got := g.Apply(&models.Cliente{TiendaID: "t1", Plan: models.PlanNone}); got != NeedsPlan {
		t.Fatalf("expected needs_plan after downgrade, got %s", got)
	}
}
