package billing

import "carrito/models"

// Plan is one subscription tier offered on the plan-selection screen.
type Plan struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	PrecioMes float64 `json:"precioMes"`
}

// Plans is the fixed catalog, cheapest first.
func Plans() []Plan {
	return []Plan{
		{ID: models.PlanEsencial, Nombre: "Esencial", PrecioMes: 29},
		{ID: models.PlanProfesional, Nombre: "Profesional", PrecioMes: 59},
		{ID: models.PlanPremium, Nombre: "Premium", PrecioMes: 99},
	}
}

// ValidPlan reports whether id names a purchasable tier.
func ValidPlan(id string) bool {
	for _, p := range Plans() {
		if p.ID == id {
			return true
		}
	}
	return false
}
