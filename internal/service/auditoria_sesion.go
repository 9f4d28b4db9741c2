package service

import (
	"fmt"

	"bodega/internal/dto"
	"bodega/internal/model"

	"github.com/google/uuid"
)

// LineaAuditada is one entry of the audit edit buffer: what the operator
// counted for an order line, before anything is committed.
type LineaAuditada struct {
	Cantidad int
	Estado   model.EstadoItem
}

// SesionAuditoria is the in-memory edit buffer of one audit. The API is
// stateless, so handlers rebuild the session from the posted buffer on every
// request; only the commit methods of AuditoriaService persist anything.
//
// The buffer is keyed by item ID and seeded from the persisted lines, so a
// partial buffer (operator counted three of ten lines) still yields correct
// whole-order metrics.
type SesionAuditoria struct {
	Pedido *model.Pedido
	Lineas map[uuid.UUID]LineaAuditada

	items map[uuid.UUID]*model.PedidoItem // persisted lines by ID
}

// NuevaSesion seeds the buffer from the order's persisted items.
func NuevaSesion(p *model.Pedido) *SesionAuditoria {
	s := &SesionAuditoria{
		Pedido: p,
		Lineas: make(map[uuid.UUID]LineaAuditada, len(p.Items)),
		items:  make(map[uuid.UUID]*model.PedidoItem, len(p.Items)),
	}
	for i := range p.Items {
		it := &p.Items[i]
		s.items[it.ID] = it
		s.Lineas[it.ID] = LineaAuditada{Cantidad: it.CantidadRecibida, Estado: it.EstadoItem}
	}
	return s
}

// Item returns the persisted line backing a buffer entry.
func (s *SesionAuditoria) Item(itemID uuid.UUID) (*model.PedidoItem, bool) {
	it, ok := s.items[itemID]
	return it, ok
}

// FijarCantidad sets the received quantity of a line and re-derives its
// status from the quantities.
func (s *SesionAuditoria) FijarCantidad(itemID uuid.UUID, cantidad int) error {
	it, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("item %s no pertenece al pedido", itemID)
	}
	if cantidad < 0 {
		cantidad = 0
	}
	s.Lineas[itemID] = LineaAuditada{
		Cantidad: cantidad,
		Estado:   model.DerivarEstadoItem(it.CantidadPedida, cantidad),
	}
	return nil
}

// FijarEstado applies an explicit status override. Agotado always forces the
// quantity to zero; other overrides keep the buffered quantity.
func (s *SesionAuditoria) FijarEstado(itemID uuid.UUID, estado model.EstadoItem) error {
	linea, ok := s.Lineas[itemID]
	if !ok {
		return fmt.Errorf("item %s no pertenece al pedido", itemID)
	}
	if !estado.IsValid() {
		return fmt.Errorf("estado de item inválido: %q", estado)
	}
	if estado == model.ItemAgotado {
		linea.Cantidad = 0
	}
	linea.Estado = estado
	s.Lineas[itemID] = linea
	return nil
}

// RecibirTodo overwrites every line with its ordered quantity, Completo.
func (s *SesionAuditoria) RecibirTodo() {
	for id, it := range s.items {
		s.Lineas[id] = LineaAuditada{Cantidad: it.CantidadPedida, Estado: model.ItemCompleto}
	}
}

// AplicarBuffer merges a posted buffer into the session. Entries set the
// quantity first (deriving the status) and then apply any explicit override,
// matching the order the UI produces them in.
func (s *SesionAuditoria) AplicarBuffer(lineas []dto.LineaAuditadaInput) error {
	for _, l := range lineas {
		itemID, err := uuid.Parse(l.ItemID)
		if err != nil {
			return fmt.Errorf("item_id inválido: %w", err)
		}
		if err := s.FijarCantidad(itemID, l.Cantidad); err != nil {
			return err
		}
		if l.Estado != nil {
			if err := s.FijarEstado(itemID, model.EstadoItem(*l.Estado)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ── Metrics ──────────────────────────────────────────────────────────────────
// Pure functions of the buffer; committing never changes their value for the
// same buffer contents.

// Progreso is the order completion percentage [0,100]: the mean of per-line
// progress, where a line contributes min(recibida/pedida, 1), or 1 when
// pedida == 0 and anything was received.
func (s *SesionAuditoria) Progreso() int {
	if len(s.items) == 0 {
		return 0
	}
	var weight float64
	for id, it := range s.items {
		linea := s.Lineas[id]
		switch {
		case it.CantidadPedida > 0:
			p := float64(linea.Cantidad) / float64(it.CantidadPedida)
			if p > 1 {
				p = 1
			}
			weight += p
		case linea.Cantidad > 0:
			weight++
		}
	}
	return int(weight/float64(len(s.items))*100 + 0.5)
}

// Discrepancias counts the lines whose received quantity differs from the
// ordered one, plus any line marked Agotado. Status overrides like Dañado do
// not count on their own: a fully received damaged line still matches the
// order.
func (s *SesionAuditoria) Discrepancias() int {
	n := 0
	for id, it := range s.items {
		linea := s.Lineas[id]
		if linea.Cantidad != it.CantidadPedida || linea.Estado == model.ItemAgotado {
			n++
		}
	}
	return n
}

// Perfectos counts the lines received exactly as ordered and not Agotado.
func (s *SesionAuditoria) Perfectos() int {
	return len(s.Lineas) - s.Discrepancias()
}

func (s *SesionAuditoria) Resumen() dto.ResumenAuditoria {
	d := s.Discrepancias()
	return dto.ResumenAuditoria{
		Percent:       s.Progreso(),
		Perfectos:     len(s.Lineas) - d,
		Discrepancias: d,
		TieneFaltas:   d > 0,
	}
}
