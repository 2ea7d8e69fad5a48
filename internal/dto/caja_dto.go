package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type MovimientoManualRequest struct {
	Tipo        string          `json:"tipo"        validate:"required,oneof=ingreso egreso"`
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
}

type CierreCajaRequest struct {
	Desde           string          `json:"desde"            validate:"required"` // RFC 3339 or YYYY-MM-DD
	Hasta           string          `json:"hasta"            validate:"required"`
	EfectivoContado decimal.Decimal `json:"efectivo_contado" validate:"min=0"`
	Notas           *string         `json:"notas"`
}

// CajaFilter bounds the movement/summary window. Both bounds empty means
// today; the bounds come as a pair, a one-sided window is rejected.
type CajaFilter struct {
	Desde string `form:"desde"`
	Hasta string `form:"hasta"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	Usuario     string          `json:"usuario"`
	CreatedAt   string          `json:"created_at"`
}

// ResumenCajaResponse is the live cash drawer view: only cash sales
// affect the physical drawer, digital sales are informational.
type ResumenCajaResponse struct {
	TotalIngresos       decimal.Decimal      `json:"total_ingresos"`
	TotalEgresos        decimal.Decimal      `json:"total_egresos"`
	VentasEfectivo      decimal.Decimal      `json:"ventas_efectivo"`
	VentasTarjeta       decimal.Decimal      `json:"ventas_tarjeta"`
	VentasTransferencia decimal.Decimal      `json:"ventas_transferencia"`
	TotalVentas         decimal.Decimal      `json:"total_ventas"`
	SaldoCaja           decimal.Decimal      `json:"saldo_caja"`
	Ingresos            []MovimientoResponse `json:"ingresos"`
	Egresos             []MovimientoResponse `json:"egresos"`
}

type CierreCajaResponse struct {
	ID               string          `json:"id"`
	PeriodoInicio    string          `json:"periodo_inicio"`
	PeriodoFin       string          `json:"periodo_fin"`
	VentasEfectivo   decimal.Decimal `json:"ventas_efectivo"`
	VentasDigital    decimal.Decimal `json:"ventas_digital"`
	IngresosManuales decimal.Decimal `json:"ingresos_manuales"`
	EgresosManuales  decimal.Decimal `json:"egresos_manuales"`
	EfectivoEsperado decimal.Decimal `json:"efectivo_esperado"`
	EfectivoContado  decimal.Decimal `json:"efectivo_contado"`
	Diferencia       decimal.Decimal `json:"diferencia"`
	Clasificacion    string          `json:"clasificacion"` // cuadrado | sobrante | faltante
	Notas            *string         `json:"notas,omitempty"`
	CreatedAt        string          `json:"created_at"`
}
