package models

import "testing"

func TestCarritoValor(t *testing.T) {
	c := Carrito{Productos: []Producto{
		{Nombre: "Camiseta", Precio: 10, Cantidad: 2},
		{Nombre: "Gorra", Precio: 15.5, Cantidad: 1},
	}}
	if got := c.Valor(); got != 35.5 {
		t.Fatalf("expected 35.5, got %v", got)
	}

	empty := Carrito{}
	if got := empty.Valor(); got != 0 {
		t.Fatalf("expected 0 for cart without products, got %v", got)
	}
}

func TestClienteHasPlan(t *testing.T) {
	cases := []struct {
		cfg  *Cliente
		want bool
	}{
		{nil, false},
		{&Cliente{}, false},
		{&Cliente{Plan: PlanNone}, false},
		{&Cliente{Plan: PlanEsencial}, true},
		{&Cliente{Plan: PlanPremium}, true},
	}
	for i, tc := range cases {
		if got := tc.cfg.HasPlan(); got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}
