package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PedidoItemInput struct {
	ProductoID     string `json:"producto_id"     validate:"required,uuid"`
	CantidadPedida int    `json:"cantidad_pedida" validate:"required,min=1"`
	Unidad         string `json:"unidad"          validate:"omitempty,oneof=Unidad Paquete"`
	EsNueva        bool   `json:"es_nueva"`
}

// CrearPedidoRequest creates a draft order (estado Pendiente). The title is
// mandatory: drafts without one are rejected before any row is written.
type CrearPedidoRequest struct {
	ProveedorID   string            `json:"proveedor_id"  validate:"required,uuid"`
	Titulo        string            `json:"titulo"        validate:"required,min=1"`
	Observaciones *string           `json:"observaciones"`
	Items         []PedidoItemInput `json:"items"         validate:"required,min=1,dive"`
}

// ActualizarBorradorRequest replaces the draft's item set: lines present here
// are upserted by producto_id, lines absent are removed.
type ActualizarBorradorRequest struct {
	Titulo *string           `json:"titulo" validate:"omitempty,min=1"`
	Items  []PedidoItemInput `json:"items"  validate:"required,min=1,dive"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type PedidoFilter struct {
	Estado      string `form:"estado"`
	ProveedorID string `form:"proveedor_id"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoItemResponse struct {
	ID               string            `json:"id"`
	ProductoID       string            `json:"producto_id"`
	Producto         *ProductoResponse `json:"producto,omitempty"`
	ProductoRealID   *string           `json:"producto_real_id,omitempty"`
	ProductoReal     *ProductoResponse `json:"producto_real,omitempty"`
	CantidadPedida   int               `json:"cantidad_pedida"`
	CantidadRecibida int               `json:"cantidad_recibida"`
	Unidad           string            `json:"unidad"`
	EsNueva          bool              `json:"es_nueva"`
	EstadoItem       string            `json:"estado_item"`
	AuditadoAt       *string           `json:"auditado_at,omitempty"`
	Observaciones    *string           `json:"observaciones,omitempty"`
}

type PedidoResponse struct {
	ID             string               `json:"id"`
	ProveedorID    string               `json:"proveedor_id"`
	Proveedor      *string              `json:"proveedor,omitempty"`
	Estado         string               `json:"estado"`
	FechaCreacion  string               `json:"fecha_creacion"`
	FechaRecepcion *string              `json:"fecha_recepcion,omitempty"`
	TotalItems     int                  `json:"total_items"`
	Titulo         *string              `json:"titulo,omitempty"`
	Observaciones  *string              `json:"observaciones,omitempty"`
	Progreso       int                  `json:"progreso"`
	Items          []PedidoItemResponse `json:"items,omitempty"`
}
