package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	SKU            string  `json:"sku"             validate:"required,min=1,max=40"`
	Nombre         string  `json:"nombre"          validate:"required,min=2,max=120"`
	MarcaID        string  `json:"marca_id"        validate:"required,uuid"`
	SubcategoriaID string  `json:"subcategoria_id" validate:"required,uuid"`
	ProveedorID    *string `json:"proveedor_id"    validate:"omitempty,uuid"`
	StockActual    int     `json:"stock_actual"    validate:"min=0"`
	StockMinimo    int     `json:"stock_minimo"    validate:"min=0"`
	Rotacion       string  `json:"rotacion"        validate:"omitempty,oneof=alta media baja"`
}

type ActualizarProductoRequest struct {
	SKU            *string `json:"sku"             validate:"omitempty,min=1,max=40"`
	Nombre         *string `json:"nombre"          validate:"omitempty,min=2,max=120"`
	MarcaID        *string `json:"marca_id"        validate:"omitempty,uuid"`
	SubcategoriaID *string `json:"subcategoria_id" validate:"omitempty,uuid"`
	ProveedorID    *string `json:"proveedor_id"    validate:"omitempty,uuid"`
	StockMinimo    *int    `json:"stock_minimo"    validate:"omitempty,min=0"`
	Rotacion       *string `json:"rotacion"        validate:"omitempty,oneof=alta media baja"`
}

// FijarStockRequest overwrites stock_actual unconditionally (manual count).
type FijarStockRequest struct {
	StockActual int    `json:"stock_actual" validate:"min=0"`
	Motivo      string `json:"motivo"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	SKU         string `form:"sku"`
	Nombre      string `form:"nombre"`
	MarcaID     string `form:"marca_id"`
	ProveedorID string `form:"proveedor_id"`
	Rotacion    string `form:"rotacion"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID             string  `json:"id"`
	SKU            string  `json:"sku"`
	Nombre         string  `json:"nombre"`
	MarcaID        string  `json:"marca_id"`
	Marca          *string `json:"marca,omitempty"`
	SubcategoriaID string  `json:"subcategoria_id"`
	Subcategoria   *string `json:"subcategoria,omitempty"`
	ProveedorID    *string `json:"proveedor_id,omitempty"`
	Proveedor      *string `json:"proveedor,omitempty"`
	StockActual    int     `json:"stock_actual"`
	StockMinimo    int     `json:"stock_minimo"`
	Rotacion       string  `json:"rotacion"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// MovimientoStockResponse is one entry of a product's stock movement history.
type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo,omitempty"`
	ReferenciaID  *string `json:"referencia_id,omitempty"`
	FechaISO      string  `json:"fecha"`
}
