package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemCarritoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// ClienteRefRequest references a client either by id or by inline data
// (created on the fly). Both nil means an anonymous sale.
type ClienteRefRequest struct {
	ClienteID *string `json:"cliente_id" validate:"omitempty,uuid"`
	Nombre    *string `json:"nombre"     validate:"omitempty,min=2"`
	Telefono  *string `json:"telefono"`
}

type RegistrarVentaRequest struct {
	Items         []ItemCarritoRequest `json:"items"          validate:"required,min=1,dive"`
	MetodoPago    string               `json:"metodo_pago"    validate:"required,oneof=efectivo tarjeta transferencia"`
	MontoRecibido decimal.Decimal      `json:"monto_recibido" validate:"min=0"`
	Cliente       *ClienteRefRequest   `json:"cliente"`
	// ClienteEmail: optional — when present the ticket worker mails the PDF.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Desde      string `form:"desde"`       // YYYY-MM-DD; empty = today
	Hasta      string `form:"hasta"`       // YYYY-MM-DD; empty = today
	MetodoPago string `form:"metodo_pago"` // efectivo | tarjeta | transferencia
	Estado     string `form:"estado,default=activas"` // activas | anuladas | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	TotalLinea     decimal.Decimal `json:"total_linea"`
}

type VentaResponse struct {
	ID            string                 `json:"id"`
	Folio         string                 `json:"folio"`
	ClienteID     *string                `json:"cliente_id,omitempty"`
	Detalles      []DetalleVentaResponse `json:"detalles"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Impuesto      decimal.Decimal        `json:"impuesto"`
	Total         decimal.Decimal        `json:"total"`
	MetodoPago    string                 `json:"metodo_pago"`
	MontoRecibido decimal.Decimal        `json:"monto_recibido"`
	Cambio        decimal.Decimal        `json:"cambio"`
	Anulada       bool                   `json:"anulada"`
	CreatedAt     string                 `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Ticket projection ───────────────────────────────────────────────────────
// Consumed by the external ticket renderer; field names match the
// receipt layout (folio, fecha, cliente, cajero, pago, cambio).

type TicketItem struct {
	Descripcion string          `json:"descripcion"`
	Cantidad    int             `json:"cantidad"`
	Precio      decimal.Decimal `json:"precio"`
	Total       decimal.Decimal `json:"total"`
}

type TicketResponse struct {
	Negocio    string          `json:"negocio"`
	Direccion  string          `json:"direccion,omitempty"`
	Telefono   string          `json:"telefono,omitempty"`
	Folio      string          `json:"folio"`
	Fecha      string          `json:"fecha"`
	Cliente    string          `json:"cliente"`
	Cajero     string          `json:"cajero"`
	Items      []TicketItem    `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Total      decimal.Decimal `json:"total"`
	Pago       decimal.Decimal `json:"pago"`
	Cambio     decimal.Decimal `json:"cambio"`
	MetodoPago string          `json:"metodo_pago"`
	Leyenda    string          `json:"leyenda,omitempty"`
}

// ─── Reporting ───────────────────────────────────────────────────────────────

type MargenVentaResponse struct {
	VentaID     string          `json:"venta_id"`
	Folio       string          `json:"folio"`
	Total       decimal.Decimal `json:"total"`
	Costo       decimal.Decimal `json:"costo"`
	MargenBruto decimal.Decimal `json:"margen_bruto"`
}
