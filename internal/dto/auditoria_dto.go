package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaAuditadaInput is one entry of the posted edit buffer: the received
// quantity plus an optional explicit status override. Without an override the
// status is derived from the quantities server-side.
type LineaAuditadaInput struct {
	ItemID   string  `json:"item_id"  validate:"required,uuid"`
	Cantidad int     `json:"cantidad" validate:"min=0"`
	Estado   *string `json:"estado"   validate:"omitempty,oneof=Completo Incompleto 'No llegó' Dañado Cancelado Pendiente Agotado"`
}

// GuardarProgresoRequest persists the buffer without touching stock or the
// order status — the order stays En Camino and can be resumed later.
type GuardarProgresoRequest struct {
	Lineas []LineaAuditadaInput `json:"lineas" validate:"required,dive"`
}

// FinalizarRequest commits the audit. Confirmar must be true when the buffer
// still holds discrepancies; otherwise the call fails with the count so the
// operator can confirm explicitly.
type FinalizarRequest struct {
	Lineas    []LineaAuditadaInput `json:"lineas" validate:"required,dive"`
	Confirmar bool                 `json:"confirmar"`
}

// CorreccionItemInput adds a brand-new line while correcting an audited
// order. It enters at zero received, No llegó — stock is only affected once
// the operator assigns it a received quantity in a later correction.
type CorreccionItemInput struct {
	ProductoID     string `json:"producto_id"     validate:"required,uuid"`
	CantidadPedida int    `json:"cantidad_pedida" validate:"required,min=1"`
	Unidad         string `json:"unidad"          validate:"omitempty,oneof=Unidad Paquete"`
}

// GuardarCorreccionRequest edits an already-audited order: changed lines
// apply signed stock deltas, Eliminar lines are removed (reversing any
// received stock first), Agregar lines are inserted inert.
type GuardarCorreccionRequest struct {
	Lineas   []LineaAuditadaInput  `json:"lineas"   validate:"required,dive"`
	Eliminar []string              `json:"eliminar" validate:"omitempty,dive,uuid"`
	Agregar  []CorreccionItemInput `json:"agregar"  validate:"omitempty,dive"`
}

// SustitucionRequest records that a different product physically arrived.
type SustitucionRequest struct {
	ProductoRealID string `json:"producto_real_id" validate:"required,uuid"`
}

// CambiarEstadoItemRequest flips a single line's status from the missing-items
// and out-of-stock report views (pausar → Pendiente, descartar → Cancelado,
// agotado → Agotado).
type CambiarEstadoItemRequest struct {
	Estado string `json:"estado" validate:"required,oneof=Pendiente Cancelado Agotado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ResumenAuditoria mirrors the progress panel of the audit screen.
type ResumenAuditoria struct {
	Percent       int  `json:"percent"`
	Perfectos     int  `json:"perfectos"`
	Discrepancias int  `json:"discrepancias"`
	TieneFaltas   bool `json:"tiene_faltas"`
}

type SesionAuditoriaResponse struct {
	Pedido  PedidoResponse   `json:"pedido"`
	Resumen ResumenAuditoria `json:"resumen"`
}
