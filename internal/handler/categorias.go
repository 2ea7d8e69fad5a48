package handler

import (
	"net/http"

	"puntoventa/internal/apierror"
	"puntoventa/internal/dto"
	"puntoventa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear categoría
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCategoriaRequest true "Categoría"
// @Success      201 {object} dto.CategoriaResponse
// @Router       /v1/categorias [post]
func (h *CategoriasHandler) Crear(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar categorías activas
// @Tags         categorias
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CategoriaResponse
// @Router       /v1/categorias [get]
func (h *CategoriasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar categorías"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary      Desactivar categoría
// @Tags         categorias
// @Security     BearerAuth
// @Param        id path string true "UUID de la categoría"
// @Success      204
// @Router       /v1/categorias/{id} [delete]
func (h *CategoriasHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
