package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deviation classification of a cash closing. Informational only — a
// shortage persists as successfully as a balanced count.
const (
	CierreCuadrado = "cuadrado"
	CierreSobrante = "sobrante"
	CierreFaltante = "faltante"
)

// CierreCaja is an end-of-period cash reconciliation record. All
// aggregates are captured at closing time and the row is immutable, so
// historical closings stay stable even if sales or movements are later
// reinterpreted.
type CierreCaja struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PeriodoInicio    time.Time       `gorm:"not null;index"`
	PeriodoFin       time.Time       `gorm:"not null"`
	UsuarioID        uuid.UUID       `gorm:"type:uuid;not null"`
	VentasEfectivo   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentasDigital    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IngresosManuales decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EgresosManuales  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EfectivoEsperado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EfectivoContado  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Diferencia       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Clasificacion    string          `gorm:"type:varchar(20);not null"`
	Notas            *string
	CreatedAt        time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (CierreCaja) TableName() string { return "cierres_caja" }
