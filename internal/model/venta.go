package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the register.
const (
	MetodoEfectivo      = "efectivo"
	MetodoTarjeta       = "tarjeta"
	MetodoTransferencia = "transferencia"
)

// MetodoPagoValido reports whether m is one of the accepted payment methods.
func MetodoPagoValido(m string) bool {
	return m == MetodoEfectivo || m == MetodoTarjeta || m == MetodoTransferencia
}

// Venta is a posted sale. It is immutable once written except for the
// anulada flag, which the reversal path sets together with the inverse
// stock deltas inside one transaction.
type Venta struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio         string     `gorm:"uniqueIndex;not null"`
	ClienteID     *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	MetodoPago    string     `gorm:"type:varchar(20);not null;index"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Impuesto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoRecibido decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cambio        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Anulada       bool            `gorm:"not null;default:false;index"`
	AnuladaAt     *time.Time
	CreatedAt     time.Time `gorm:"index"`

	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one sale line. Descripcion, PrecioUnitario and
// CostoUnitario are snapshots taken at sale time so later catalog edits
// never alter historical revenue or margin figures.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoUnitario  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalLinea     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalles_venta" }

// Margen returns the gross margin of the line from the snapshotted figures.
func (d *DetalleVenta) Margen() decimal.Decimal {
	return d.PrecioUnitario.Sub(d.CostoUnitario).Mul(decimal.NewFromInt(int64(d.Cantidad)))
}
