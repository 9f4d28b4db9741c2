package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor represents a supplier of the distribution business.
type Proveedor struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string    `gorm:"index;not null"`
	Contacto *string
	Email    *string
	Telefono *string
	Activo   bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Productos []Producto `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }
