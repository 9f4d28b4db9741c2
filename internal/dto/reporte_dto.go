package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

// FaltanteResponse is one line of the missing-items report: an audited line
// that came up short, tied back to its order and supplier.
type FaltanteResponse struct {
	ItemID           string  `json:"item_id"`
	PedidoID         string  `json:"pedido_id"`
	PedidoTitulo     *string `json:"pedido_titulo"`
	ProductoID       string  `json:"producto_id"`
	ProductoNombre   string  `json:"producto_nombre"`
	ProveedorNombre  *string `json:"proveedor_nombre"`
	CantidadPedida   int     `json:"cantidad_pedida"`
	CantidadRecibida int     `json:"cantidad_recibida"`
	Faltante         int     `json:"faltante"`
	Estado           string  `json:"estado"`
}

// AccionResponse is one line of the action-required report: items marked
// Agotado or Dañado that need a purchasing decision.
type AccionResponse struct {
	ItemID         string  `json:"item_id"`
	PedidoID       string  `json:"pedido_id"`
	PedidoTitulo   *string `json:"pedido_titulo"`
	ProductoID     string  `json:"producto_id"`
	ProductoNombre string  `json:"producto_nombre"`
	CantidadPedida int     `json:"cantidad_pedida"`
	Estado         string  `json:"estado"`
}

// DesempenoProveedorResponse aggregates audited orders per supplier. An
// incident is a line in No llegó, Incompleto or Dañado; a perfect order has
// no incident lines. Rates are percentages with two decimal places.
type DesempenoProveedorResponse struct {
	ProveedorID      string          `json:"proveedor_id"`
	ProveedorNombre  string          `json:"proveedor_nombre"`
	PedidosAuditados int             `json:"pedidos_auditados"`
	PedidosPerfectos int             `json:"pedidos_perfectos"`
	Incidencias      int             `json:"incidencias"`
	ItemsPedidos     int             `json:"items_pedidos"`
	ItemsRecibidos   int             `json:"items_recibidos"`
	TasaCumplimiento decimal.Decimal `json:"tasa_cumplimiento"`
	TasaPerfectos    decimal.Decimal `json:"tasa_perfectos"`
}

// ReporteRecepcionResponse acknowledges the async PDF generation request.
type ReporteRecepcionResponse struct {
	PedidoID string `json:"pedido_id"`
	Estado   string `json:"estado"`
}
