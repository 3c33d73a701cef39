package models

import "time"

// Subscription plan tags. A missing or empty plan is treated as PlanNone.
const (
	PlanNone        = "none"
	PlanEsencial    = "esencial"
	PlanProfesional = "profesional"
	PlanPremium     = "premium"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Cliente is the per-merchant configuration document, keyed by the merchant's
// user ID. An absent document is a valid empty default; the editor creates it
// on first save with merge semantics.
type Cliente struct {
	TiendaID    string    `json:"tiendaId" bson:"_id,omitempty"`
	Nombre      string    `json:"nombre,omitempty" bson:"nombre,omitempty"`
	Whatsapp    string    `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
	Telefono    string    `json:"telefono,omitempty" bson:"telefono,omitempty"`
	APIKey      string    `json:"apiKey,omitempty" bson:"apiKey,omitempty"`
	Faqs        string    `json:"faqs,omitempty" bson:"faqs,omitempty"`
	Plan        string    `json:"plan,omitempty" bson:"plan,omitempty"`
	Status      string    `json:"status,omitempty" bson:"status,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty" bson:"lastUpdated,omitempty"`
}

// HasPlan reports whether the merchant is on a paying plan.
func (c *Cliente) HasPlan() bool {
	return c != nil && c.Plan != "" && c.Plan != PlanNone
}
