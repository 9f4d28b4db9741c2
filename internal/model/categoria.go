package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria classifies products. Top-level categories have ParentID nil;
// subcategories point at their parent. Products always reference a subcategory.
type Categoria struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string     `gorm:"index;not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Parent        *Categoria  `gorm:"foreignKey:ParentID"`
	Subcategorias []Categoria `gorm:"foreignKey:ParentID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }
