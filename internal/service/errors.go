package service

import "errors"

// Domain errors. Validation errors are always detected before the
// transaction opens; a sale that fails any of these leaves zero side
// effects. ErrConflictoStock is the one retryable case — the stock row
// changed between the pre-flight check and the conditional decrement.
var (
	ErrCarritoVacio         = errors.New("el carrito está vacío")
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrStockInsuficiente    = errors.New("stock insuficiente para completar la venta")
	ErrPagoInsuficiente     = errors.New("el monto recibido es insuficiente")
	ErrMetodoPagoInvalido   = errors.New("método de pago inválido")
	ErrVentaNoEncontrada    = errors.New("venta no encontrada")
	ErrVentaYaAnulada       = errors.New("la venta ya está anulada")
	ErrClienteNoEncontrado  = errors.New("cliente no encontrado")
	ErrMontoInvalido        = errors.New("monto inválido")
	ErrPeriodoInvalido      = errors.New("período inválido")
	ErrConflictoStock       = errors.New("conflicto de stock: reintente la venta")

	ErrMovimientoNoEncontrado = errors.New("movimiento de caja no encontrado")
	ErrCierreNoEncontrado     = errors.New("cierre de caja no encontrado")
	ErrCategoriaNoEncontrada  = errors.New("categoría no encontrada")
	ErrCodigoBarrasDuplicado  = errors.New("el código de barras ya está registrado")
	ErrCredencialesInvalidas  = errors.New("credenciales inválidas")
	ErrUsuarioInactivo        = errors.New("usuario inactivo")
)
