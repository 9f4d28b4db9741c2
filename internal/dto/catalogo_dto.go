package dto

// Categorias and marcas share one file: both are thin lookup tables.

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre   string  `json:"nombre"    validate:"required,min=1"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

type ActualizarCategoriaRequest struct {
	Nombre   *string `json:"nombre"    validate:"omitempty,min=1"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

type CrearMarcaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	ParentID *string `json:"parent_id,omitempty"`
}

type MarcaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
