package model

import (
	"time"

	"github.com/google/uuid"
)

// Rotacion is the turnover classification of a product.
type Rotacion string

const (
	RotacionAlta  Rotacion = "alta"
	RotacionMedia Rotacion = "media"
	RotacionBaja  Rotacion = "baja"
)

// IsValid reports whether r is one of the known turnover classes.
func (r Rotacion) IsValid() bool {
	return r == RotacionAlta || r == RotacionMedia || r == RotacionBaja
}

// Producto is a catalog item. The SKU is unique within a brand+subcategory
// pair, so two brands can share the same SKU text.
type Producto struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU            string     `gorm:"column:sku;uniqueIndex:idx_sku_marca_subcat;not null"`
	Nombre         string     `gorm:"index;not null"`
	MarcaID        uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_sku_marca_subcat;not null;index"`
	SubcategoriaID uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_sku_marca_subcat;not null;index"`
	ProveedorID    *uuid.UUID `gorm:"type:uuid;index"` // preferred supplier, optional
	StockActual    int        `gorm:"not null;default:0"`
	StockMinimo    int        `gorm:"not null;default:0"`
	Rotacion       Rotacion   `gorm:"not null;default:'media'"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Marca        *Marca     `gorm:"foreignKey:MarcaID"`
	Subcategoria *Categoria `gorm:"foreignKey:SubcategoriaID"`
	Proveedor    *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }
