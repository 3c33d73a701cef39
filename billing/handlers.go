package billing

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/julienschmidt/httprouter"

	"carrito/gate"
	"carrito/models"
	"carrito/settings"
	"carrito/utils"
)

// InterstitialDelaySeconds is how long the payment-success screen waits
// before sending the merchant home, whether or not the billing webhook has
// landed by then. Known gap, kept on purpose: changing it needs product
// input.
const InterstitialDelaySeconds = 5

// Service hands merchants off to the external checkout collaborator and
// evaluates the subscription gate. It never mutates the config document; the
// plan field is owned by the billing webhook upstream.
type Service struct {
	Config      *settings.Service
	Markers     MarkerStore
	CheckoutURL string
}

func NewService(config *settings.Service, markers MarkerStore, checkoutURL string) *Service {
	return &Service{Config: config, Markers: markers, CheckoutURL: checkoutURL}
}

// CheckoutSession is the redirect target for one plan purchase.
type CheckoutSession struct {
	URL       string    `json:"url"`
	Plan      string    `json:"plan"`
	TiendaID  string    `json:"tiendaId"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetPlans lists the plan catalog.
func (s *Service) GetPlans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, Plans())
}

// CreateCheckout obtains the external checkout redirect for a plan.
func (s *Service) CreateCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !ValidPlan(payload.Plan) {
		http.Error(w, "Unknown plan", http.StatusBadRequest)
		return
	}

	q := url.Values{}
	q.Set("plan", payload.Plan)
	q.Set("tienda", tiendaID)
	session := CheckoutSession{
		URL:       s.CheckoutURL + "?" + q.Encode(),
		Plan:      payload.Plan,
		TiendaID:  tiendaID,
		CreatedAt: time.Now().UTC(),
	}

	utils.RespondWithJSON(w, http.StatusCreated, session)
}

// PaymentReturn is where the checkout collaborator sends the merchant back.
// A successful return records the one-shot marker; the response tells the
// interstitial how long to wait before going home.
func (s *Service) PaymentReturn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.URL.Query().Get("success") == "1" {
		if err := s.Markers.Set(ctx, tiendaID); err != nil {
			log.Println("billing marker set error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"redirectDelaySeconds": InterstitialDelaySeconds,
	})
}

// GateState evaluates which screen the merchant should see right now. The
// success marker, if present, is consumed here: a page refresh will not see
// it again.
func (s *Service) GateState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tiendaID := utils.GetUserIDFromRequest(r)
	if tiendaID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	marker, err := s.Markers.TakeOnce(ctx, tiendaID)
	if err != nil {
		log.Println("billing marker read error:", err)
		marker = false
	}

	cfg, _, err := s.Config.Load(ctx, tiendaID)
	if err != nil {
		log.Println("billing gate load error:", err)
		http.Error(w, "Could not evaluate subscription", http.StatusInternalServerError)
		return
	}

	g := gate.New(marker)
	g.Apply(cfg)

	plan := cfg.Plan
	if plan == "" {
		plan = models.PlanNone
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"state": g.Current().String(),
		"plan":  plan,
	})
}
