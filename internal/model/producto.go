package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the catalog entry the sale engine reads prices from and
// decrements stock on. Stock never goes negative: every decrement is a
// conditional UPDATE guarded by stock >= cantidad.
type Producto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras *string         `gorm:"uniqueIndex"`
	Descripcion  string          `gorm:"index;not null"`
	CategoriaID  *uuid.UUID      `gorm:"type:uuid;index"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioCompra decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock        int             `gorm:"not null;default:0"`
	StockMinimo  int             `gorm:"not null;default:5"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

// TableName overrides GORM's pluralization for Spanish names.
func (Producto) TableName() string { return "productos" }
