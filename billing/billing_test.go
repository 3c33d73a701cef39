package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carrito/middleware"
	"carrito/models"
)

func TestValidPlan(t *testing.T) {
	for _, id := range []string{models.PlanEsencial, models.PlanProfesional, models.PlanPremium} {
		if !ValidPlan(id) {
			t.Fatalf("plan %s should be valid", id)
		}
	}
	for _, id := range []string{"", models.PlanNone, "gratis", "ENTERPRISE"} {
		if ValidPlan(id) {
			t.Fatalf("plan %q should be invalid", id)
		}
	}
}

func TestPlansOrderedCheapestFirst(t *testing.T) {
	plans := Plans()
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	for i := 1; i < len(plans); i++ {
		if plans[i].PrecioMes < plans[i-1].PrecioMes {
			t.Fatal("plans must be ordered cheapest first")
		}
	}
}

func authedRequest(method, target string, body []byte, tienda string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, tienda)
	return r.WithContext(ctx)
}

func TestCreateCheckoutBuildsRedirect(t *testing.T) {
	svc := NewService(nil, nil, "https://pay.example.com/checkout")

	body, _ := json.Marshal(map[string]string{"plan": models.PlanProfesional})
	r := authedRequest(http.MethodPost, "/api/billing/checkout", body, "t42")
	w := httptest.NewRecorder()

	svc.CreateCheckout(w, r, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var session CheckoutSession
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !strings.HasPrefix(session.URL, "https://pay.example.com/checkout?") {
		t.Fatalf("unexpected redirect base: %s", session.URL)
	}
	if !strings.Contains(session.URL, "plan=profesional") || !strings.Contains(session.URL, "tienda=t42") {
		t.Fatalf("redirect missing parameters: %s", session.URL)
	}
}

func TestCreateCheckoutRejectsUnknownPlan(t *testing.T) {
	svc := NewService(nil, nil, "https://pay.example.com/checkout")

	body, _ := json.Marshal(map[string]string{"plan": "gratis"})
	r := authedRequest(http.MethodPost, "/api/billing/checkout", body, "t42")
	w := httptest.NewRecorder()

	svc.CreateCheckout(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateCheckoutRequiresAuth(t *testing.T) {
	svc := NewService(nil, nil, "https://pay.example.com/checkout")

	body, _ := json.Marshal(map[string]string{"plan": models.PlanEsencial})
	r := httptest.NewRequest(http.MethodPost, "/api/billing/checkout", bytes.NewReader(body))
	w := httptest.NewRecorder()

	svc.CreateCheckout(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

type memMarkers struct {
	set map[string]bool
}

func (m *memMarkers) Set(_ context.Context, tienda string) error {
	if m.set == nil {
		m.set = make(map[string]bool)
	}
	m.set[tienda] = true
	return nil
}

func (m *memMarkers) TakeOnce(_ context.Context, tienda string) (bool, error) {
	if m.set[tienda] {
		delete(m.set, tienda)
		return true, nil
	}
	return false, nil
}

func TestPaymentReturnRecordsMarkerOnce(t *testing.T) {
	markers := &memMarkers{}
	svc := NewService(nil, markers, "https://pay.example.com/checkout")

	r := authedRequest(http.MethodGet, "/api/billing/return?success=1", nil, "t42")
	w := httptest.NewRecorder()
	svc.PaymentReturn(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["redirectDelaySeconds"] != float64(InterstitialDelaySeconds) {
		t.Fatalf("unexpected delay: %v", resp["redirectDelaySeconds"])
	}

	ctx := context.Background()
	if got, _ := markers.TakeOnce(ctx, "t42"); !got {
		t.Fatal("expected the marker to be set")
	}
	if got, _ := markers.TakeOnce(ctx, "t42"); got {
		t.Fatal("marker must be consumed by the first read")
	}
}

func TestPaymentReturnIgnoresFailure(t *testing.T) {
	markers := &memMarkers{}
	svc := NewService(nil, markers, "https://pay.example.com/checkout")

	r := authedRequest(http.MethodGet, "/api/billing/return?success=0", nil, "t42")
	w := httptest.NewRecorder()
	svc.PaymentReturn(w, r, nil)

	if got, _ := markers.TakeOnce(context.Background(), "t42"); got {
		t.Fatal("failed return must not set the marker")
	}
}
