package model

import (
	"time"

	"github.com/google/uuid"
)

// EstadoPedido is the lifecycle state of a purchase order.
//
//	Pendiente → En Camino → Auditado
//
// "Cancelado" is the soft-trash state reachable from En Camino or Auditado.
// Reverse transitions back to Pendiente exist for both En Camino and Auditado
// (the latter reverses the stock already applied — see service/auditoria).
type EstadoPedido string

const (
	PedidoPendiente EstadoPedido = "Pendiente"
	PedidoEnCamino  EstadoPedido = "En Camino"
	PedidoAuditado  EstadoPedido = "Auditado"
	PedidoCancelado EstadoPedido = "Cancelado"
)

func (e EstadoPedido) IsValid() bool {
	switch e {
	case PedidoPendiente, PedidoEnCamino, PedidoAuditado, PedidoCancelado:
		return true
	}
	return false
}

func (e EstadoPedido) String() string { return string(e) }

// CanTransitionTo reports whether moving from e to target is a legal
// transition. Only the audit service performs transitions; everything else
// must reject orders in the wrong state.
func (e EstadoPedido) CanTransitionTo(target EstadoPedido) bool {
	switch e {
	case PedidoPendiente:
		return target == PedidoEnCamino
	case PedidoEnCamino:
		return target == PedidoAuditado || target == PedidoPendiente || target == PedidoCancelado
	case PedidoAuditado:
		return target == PedidoPendiente || target == PedidoCancelado
	case PedidoCancelado:
		// Terminal except for permanent deletion, which is not a transition.
		return false
	}
	return false
}

// Pedido is a purchase order placed with a supplier. It owns its items;
// deleting a pedido removes its items first, the FK blocks any other order.
type Pedido struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	Estado         EstadoPedido `gorm:"not null;default:'Pendiente';index"`
	FechaCreacion  time.Time    `gorm:"not null;autoCreateTime"`
	FechaRecepcion *time.Time
	// TotalItems caches len(Items) so list views avoid loading children.
	// Refreshed on every item-set mutation.
	TotalItems    int `gorm:"not null;default:0"`
	Titulo        *string
	Observaciones *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Proveedor *Proveedor   `gorm:"foreignKey:ProveedorID"`
	Items     []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:RESTRICT"`
}

func (Pedido) TableName() string { return "pedidos" }

// Progreso returns the completion percentage [0,100] of the persisted items.
// Line weight is min(recibida/pedida, 1); a line with pedida == 0 counts as
// complete the moment anything is received.
func (p *Pedido) Progreso() int {
	if len(p.Items) == 0 {
		return 0
	}
	var weight float64
	for _, it := range p.Items {
		weight += it.Progreso()
	}
	return int(weight/float64(len(p.Items))*100 + 0.5)
}
