package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoCaja is an entry in the append-only manual cash ledger.
// Tipo: "ingreso" | "egreso". Monto is always positive — direction is
// encoded by Tipo, never by sign. Entries are never updated; the only
// destructive operation is an administrative delete, logged as such.
type MovimientoCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo        string          `gorm:"type:varchar(10);not null;index"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"not null"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt   time.Time       `gorm:"index"`

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }

// Movement types for the manual cash ledger.
const (
	MovimientoIngreso = "ingreso"
	MovimientoEgreso  = "egreso"
)
