package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	CodigoBarras *string         `json:"codigo_barras"`
	Descripcion  string          `json:"descripcion"   validate:"required,min=2"`
	CategoriaID  *string         `json:"categoria_id"  validate:"omitempty,uuid"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required,gt=0"`
	PrecioCompra decimal.Decimal `json:"precio_compra" validate:"min=0"`
	Stock        int             `json:"stock"         validate:"min=0"`
	StockMinimo  int             `json:"stock_minimo"  validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Descripcion  *string          `json:"descripcion"   validate:"omitempty,min=2"`
	CategoriaID  *string          `json:"categoria_id"  validate:"omitempty,uuid"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"  validate:"omitempty,gt=0"`
	PrecioCompra *decimal.Decimal `json:"precio_compra"`
	StockMinimo  *int             `json:"stock_minimo"  validate:"omitempty,min=0"`
}

// AjustarStockRequest applies a signed manual stock delta with a reason.
type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type ProductoFilter struct {
	Descripcion string `form:"descripcion"`
	Barcode     string `form:"barcode"`
	CategoriaID string `form:"categoria_id"`
	Activo      string `form:"activo"` // "false" | "all" | default activos
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	CodigoBarras *string         `json:"codigo_barras,omitempty"`
	Descripcion  string          `json:"descripcion"`
	CategoriaID  *string         `json:"categoria_id,omitempty"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	Stock        int             `json:"stock"`
	StockMinimo  int             `json:"stock_minimo"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// AlertaStockResponse is one row of the low-stock report.
type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Descripcion string `json:"descripcion"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
}
