package handler

import (
	"net/http"
	"strconv"

	"puntoventa/internal/apierror"
	"puntoventa/internal/dto"
	"puntoventa/internal/middleware"
	"puntoventa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// RegistrarMovimiento godoc
// @Summary      Registrar movimiento manual de caja
// @Description  Ingreso o egreso manual de efectivo sobre el cajón.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MovimientoManualRequest true "Movimiento"
// @Success      201 {object} dto.MovimientoResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/caja/movimientos [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarMovimiento godoc
// @Summary      Eliminar movimiento manual
// @Description  Borrado administrativo de un movimiento. Queda registrado en el log con el usuario actuante.
// @Tags         caja
// @Security     BearerAuth
// @Param        id path string true "UUID del movimiento"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caja/movimientos/{id} [delete]
func (h *CajaHandler) EliminarMovimiento(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.EliminarMovimiento(c.Request.Context(), id, usuarioID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resumen godoc
// @Summary      Resumen de caja
// @Description  Vista en vivo del cajón: ventas por método, movimientos manuales y saldo de efectivo.
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        hasta query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200 {object} dto.ResumenCajaResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/caja/resumen [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	var filter dto.CajaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CerrarCaja godoc
// @Summary      Cierre de caja
// @Description  Reconcilia el efectivo contado contra el esperado del período y persiste el cierre clasificado.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CierreCajaRequest true "Período y efectivo contado"
// @Success      201 {object} dto.CierreCajaResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/caja/cierres [post]
func (h *CajaHandler) CerrarCaja(c *gin.Context) {
	var req dto.CierreCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CerrarCaja(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerCierre godoc
// @Summary      Obtener cierre por ID
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del cierre"
// @Success      200 {object} dto.CierreCajaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caja/cierres/{id} [get]
func (h *CajaHandler) ObtenerCierre(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerCierre(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarCierres godoc
// @Summary      Historial de cierres
// @Tags         caja
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Página (default 1)"
// @Param        limit query int false "Registros por página (default 50)"
// @Success      200 {array} dto.CierreCajaResponse
// @Router       /v1/caja/cierres [get]
func (h *CajaHandler) ListarCierres(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	cierres, total, err := h.svc.ListCierres(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cierres"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cierres, "total": total, "page": page, "limit": limit})
}
