package handler

import (
	"errors"
	"net/http"
	"reflect"

	"puntoventa/internal/apierror"
	"puntoventa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps domain errors to HTTP statuses: missing
// resources → 404, concurrent-conflict and double-void → 409, every other
// domain rule → 400, anything unknown → 500 with a generic message.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVentaNoEncontrada),
		errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrClienteNoEncontrado),
		errors.Is(err, service.ErrCategoriaNoEncontrada),
		errors.Is(err, service.ErrMovimientoNoEncontrado),
		errors.Is(err, service.ErrCierreNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflictoStock),
		errors.Is(err, service.ErrVentaYaAnulada),
		errors.Is(err, service.ErrCodigoBarrasDuplicado):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCarritoVacio),
		errors.Is(err, service.ErrStockInsuficiente),
		errors.Is(err, service.ErrPagoInsuficiente),
		errors.Is(err, service.ErrMetodoPagoInvalido),
		errors.Is(err, service.ErrMontoInvalido),
		errors.Is(err, service.ErrPeriodoInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
