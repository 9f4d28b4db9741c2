package model

import (
	"time"

	"github.com/google/uuid"
)

// EstadoItem is the reception status of one order line.
type EstadoItem string

const (
	ItemCompleto   EstadoItem = "Completo"
	ItemIncompleto EstadoItem = "Incompleto"
	ItemNoLlego    EstadoItem = "No llegó"
	ItemDanado     EstadoItem = "Dañado"
	ItemCancelado  EstadoItem = "Cancelado"
	ItemPendiente  EstadoItem = "Pendiente"
	ItemAgotado    EstadoItem = "Agotado"
)

func (e EstadoItem) IsValid() bool {
	switch e {
	case ItemCompleto, ItemIncompleto, ItemNoLlego, ItemDanado, ItemCancelado, ItemPendiente, ItemAgotado:
		return true
	}
	return false
}

// DerivarEstadoItem maps (ordered, received) onto a line status when the
// operator gives no explicit override:
//
//	received == 0       → No llegó
//	received == ordered → Completo
//	anything else       → Incompleto (covers both shortfall and overage)
func DerivarEstadoItem(pedida, recibida int) EstadoItem {
	switch {
	case recibida == 0:
		return ItemNoLlego
	case recibida == pedida:
		return ItemCompleto
	default:
		return ItemIncompleto
	}
}

// Unidad is the unit of measure of an order line.
type Unidad string

const (
	UnidadUnidad  Unidad = "Unidad"
	UnidadPaquete Unidad = "Paquete"
)

// PedidoItem is one line of a purchase order. ProductoRealID is set when a
// different-but-equivalent product physically arrived (substitution); stock
// mutations always target ProductoReal when present.
type PedidoItem struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductoID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductoRealID   *uuid.UUID `gorm:"type:uuid"`
	CantidadPedida   int        `gorm:"not null;default:0"`
	CantidadRecibida int        `gorm:"not null;default:0"`
	Unidad           Unidad     `gorm:"not null;default:'Unidad'"`
	EsNueva          bool       `gorm:"not null;default:false"`
	EstadoItem       EstadoItem `gorm:"not null;default:'No llegó';index"`
	AuditadoAt       *time.Time
	Observaciones    *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Producto     *Producto `gorm:"foreignKey:ProductoID"`
	ProductoReal *Producto `gorm:"foreignKey:ProductoRealID"`
}

func (PedidoItem) TableName() string { return "pedido_items" }

// ProductoDestino is the product whose stock this line affects:
// the substitute when one was received, the ordered product otherwise.
func (i *PedidoItem) ProductoDestino() uuid.UUID {
	if i.ProductoRealID != nil {
		return *i.ProductoRealID
	}
	return i.ProductoID
}

// Progreso is this line's contribution to the order completion percentage.
func (i *PedidoItem) Progreso() float64 {
	if i.CantidadPedida > 0 {
		p := float64(i.CantidadRecibida) / float64(i.CantidadPedida)
		if p > 1 {
			p = 1
		}
		return p
	}
	if i.CantidadRecibida > 0 {
		return 1
	}
	return 0
}
