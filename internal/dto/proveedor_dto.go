package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2"`
	Contacto *string `json:"contacto"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
}

type ActualizarProveedorRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2"`
	Contacto *string `json:"contacto"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
	Activo   *bool   `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Contacto *string `json:"contacto,omitempty"`
	Email    *string `json:"email,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
	Activo   bool    `json:"activo"`
}
