package handler

import (
	"net/http"
	"strconv"
	"time"

	"puntoventa/internal/apierror"
	"puntoventa/internal/repository"
	"puntoventa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportesHandler struct {
	ventaSvc      service.VentaService
	inventarioSvc service.InventarioService
}

func NewReportesHandler(ventaSvc service.VentaService, inventarioSvc service.InventarioService) *ReportesHandler {
	return &ReportesHandler{ventaSvc: ventaSvc, inventarioSvc: inventarioSvc}
}

// Margen godoc
// @Summary      Reporte de margen bruto
// @Description  Margen por venta no anulada del período, calculado sobre los precios y costos congelados en cada detalle.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        hasta query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200 {array} dto.MargenVentaResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/margen [get]
func (h *ReportesHandler) Margen(c *gin.Context) {
	desde, hasta, err := rangoFechas(c.Query("desde"), c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Fechas inválidas: use YYYY-MM-DD"))
		return
	}
	resp, err := h.ventaSvc.MargenPeriodo(c.Request.Context(), desde, hasta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar reporte"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BajoStock godoc
// @Summary      Alertas de stock bajo
// @Description  Productos activos con stock en o bajo su mínimo configurado.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlertaStockResponse
// @Router       /v1/reportes/bajo-stock [get]
func (h *ReportesHandler) BajoStock(c *gin.Context) {
	resp, err := h.inventarioSvc.Alertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MovimientosStock godoc
// @Summary      Historial de movimientos de stock
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string false "UUID de producto"
// @Param        tipo        query string false "venta | ajuste_manual | restauracion_anulacion"
// @Param        page        query int    false "Página (default 1)"
// @Param        limit       query int    false "Registros por página (default 100)"
// @Success      200 {object} map[string]interface{}
// @Router       /v1/reportes/movimientos-stock [get]
func (h *ReportesHandler) MovimientosStock(c *gin.Context) {
	filter := repository.MovimientoStockFilter{
		Tipo: c.Query("tipo"),
	}
	if pid := c.Query("producto_id"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id inválido"))
			return
		}
		filter.ProductoID = &id
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	movimientos, total, err := h.inventarioSvc.Movimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movimientos, "total": total})
}

// rangoFechas resolves YYYY-MM-DD query bounds into a half-open window,
// defaulting to today.
func rangoFechas(desdeStr, hastaStr string) (time.Time, time.Time, error) {
	hoy := time.Now().Truncate(24 * time.Hour)
	desde, hasta := hoy, hoy.Add(24*time.Hour)

	if desdeStr != "" {
		t, err := time.Parse("2006-01-02", desdeStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		desde = t
	}
	if hastaStr != "" {
		t, err := time.Parse("2006-01-02", hastaStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		hasta = t.Add(24 * time.Hour)
	}
	return desde, hasta, nil
}
