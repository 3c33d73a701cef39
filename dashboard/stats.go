package dashboard

import (
	"sort"

	"carrito/models"
)

// DisplayCap limits the recent-activity table. Aggregates are always computed
// over the full merchant-filtered set, never the displayed slice.
const DisplayCap = 10

// Stats are the derived recovery aggregates for one merchant.
type Stats struct {
	RecoveredValue float64 `json:"recoveredValue"`
	RecoveredCarts int     `json:"recoveredCarts"`
	TotalManaged   int     `json:"totalManaged"`
}

// Compute re-derives the aggregates from a full snapshot. Carts with missing
// line items contribute zero value; nothing here can fail on a malformed
// record.
func Compute(carritos []models.Carrito) Stats {
	s := Stats{TotalManaged: len(carritos)}
	for i := range carritos {
		if carritos[i].Recuperado {
			s.RecoveredCarts++
			s.RecoveredValue += carritos[i].Valor()
		}
	}
	return s
}

// SortByRecency orders carts newest-first, in place. The subscription's query
// already asks the server for this order; this is the fallback when the
// snapshot arrives unordered. A missing timestamp sorts as oldest.
func SortByRecency(carritos []models.Carrito) {
	sort.SliceStable(carritos, func(i, j int) bool {
		return carritos[i].Timestamp.After(carritos[j].Timestamp)
	})
}

// Recent returns at most n carts from an already-ordered listing.
func Recent(carritos []models.Carrito, n int) []models.Carrito {
	if len(carritos) <= n {
		return carritos
	}
	return carritos[:n]
}
