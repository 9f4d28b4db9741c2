package model

import (
	"time"

	"github.com/google/uuid"
)

// Marca is a commercial brand. Products belong to exactly one brand.
type Marca struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Marca) TableName() string { return "marcas" }
