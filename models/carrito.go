package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Producto is one line item inside an abandoned cart.
type Producto struct {
	Nombre   string  `json:"nombre" bson:"nombre"`
	Precio   float64 `json:"precio" bson:"precio"`
	Cantidad int     `json:"cantidad" bson:"cantidad"`
}

// Carrito is one abandoned-cart event. Immutable except for the recovery
// flag, which the (external) follow-up backend flips when the customer
// completes the purchase.
type Carrito struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TiendaID   string             `json:"tiendaId" bson:"tiendaId"`
	Cliente    string             `json:"cliente,omitempty" bson:"cliente,omitempty"`
	Productos  []Producto         `json:"productos,omitempty" bson:"productos,omitempty"`
	Recuperado bool               `json:"recuperado" bson:"recuperado"`
	Timestamp  time.Time          `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// Valor is the cart's monetary value: sum of precio*cantidad over its line
// items. A cart with no line items is worth zero.
func (c *Carrito) Valor() float64 {
	var total float64
	for _, p := range c.Productos {
		total += p.Precio * float64(p.Cantidad)
	}
	return total
}
