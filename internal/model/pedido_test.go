package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransicionesDeEstado(t *testing.T) {
	cases := []struct {
		desde, hacia EstadoPedido
		ok           bool
	}{
		{PedidoPendiente, PedidoEnCamino, true},
		{PedidoPendiente, PedidoAuditado, false},
		{PedidoPendiente, PedidoCancelado, false},
		{PedidoEnCamino, PedidoAuditado, true},
		{PedidoEnCamino, PedidoPendiente, true},
		{PedidoEnCamino, PedidoCancelado, true},
		{PedidoAuditado, PedidoPendiente, true},
		{PedidoAuditado, PedidoCancelado, true},
		{PedidoAuditado, PedidoEnCamino, false},
		{PedidoCancelado, PedidoPendiente, false},
		{PedidoCancelado, PedidoEnCamino, false},
		{PedidoCancelado, PedidoAuditado, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.desde.CanTransitionTo(tc.hacia),
			"%s → %s", tc.desde, tc.hacia)
	}
}

func TestDerivarEstadoItem(t *testing.T) {
	assert.Equal(t, ItemNoLlego, DerivarEstadoItem(10, 0))
	assert.Equal(t, ItemCompleto, DerivarEstadoItem(10, 10))
	assert.Equal(t, ItemIncompleto, DerivarEstadoItem(10, 7))
	// Overage is also a discrepancy, not a completion
	assert.Equal(t, ItemIncompleto, DerivarEstadoItem(10, 12))
	// Zero ordered and zero received still reads as not arrived
	assert.Equal(t, ItemNoLlego, DerivarEstadoItem(0, 0))
}

func TestProgresoItem(t *testing.T) {
	it := PedidoItem{CantidadPedida: 10, CantidadRecibida: 5}
	assert.InDelta(t, 0.5, it.Progreso(), 1e-9)

	// Over-delivery caps at 1
	it = PedidoItem{CantidadPedida: 10, CantidadRecibida: 15}
	assert.InDelta(t, 1.0, it.Progreso(), 1e-9)

	// pedida == 0: complete the moment anything arrives
	it = PedidoItem{CantidadPedida: 0, CantidadRecibida: 3}
	assert.InDelta(t, 1.0, it.Progreso(), 1e-9)
	it = PedidoItem{CantidadPedida: 0, CantidadRecibida: 0}
	assert.InDelta(t, 0.0, it.Progreso(), 1e-9)
}

func TestProgresoPedido(t *testing.T) {
	p := Pedido{}
	assert.Equal(t, 0, p.Progreso(), "sin items no hay progreso")

	p.Items = []PedidoItem{
		{CantidadPedida: 10, CantidadRecibida: 10},
		{CantidadPedida: 10, CantidadRecibida: 0},
	}
	assert.Equal(t, 50, p.Progreso())

	p.Items = append(p.Items, PedidoItem{CantidadPedida: 4, CantidadRecibida: 2})
	// (1 + 0 + 0.5) / 3 = 50%
	assert.Equal(t, 50, p.Progreso())
}
