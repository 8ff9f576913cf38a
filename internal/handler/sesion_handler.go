package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
	"github.com/psycoagenda/psycoagenda/pkg/response"
)

type sesionService interface {
	List(ctx context.Context) ([]models.Sesion, error)
	Create(ctx context.Context, in models.SesionInput) (*models.Sesion, error)
	Update(ctx context.Context, id int64, in models.SesionInput) (*models.Sesion, error)
	Delete(ctx context.Context, id int64) error
}

// SesionHandler exposes the session endpoints.
type SesionHandler struct {
	sesiones sesionService
}

// NewSesionHandler constructs SesionHandler.
func NewSesionHandler(sesiones sesionService) *SesionHandler {
	return &SesionHandler{sesiones: sesiones}
}

// List godoc
// @Summary List sessions
// @Tags Sesiones
// @Produce json
// @Success 200 {array} models.Sesion
// @Router /sesiones [get]
func (h *SesionHandler) List(c *gin.Context) {
	sesiones, err := h.sesiones.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sesiones)
}

// Create godoc
// @Summary Create session
// @Tags Sesiones
// @Accept json
// @Produce json
// @Param payload body models.SesionInput true "Session payload"
// @Success 201 {object} models.Sesion
// @Router /sesiones [post]
func (h *SesionHandler) Create(c *gin.Context) {
	var in models.SesionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload inválido"))
		return
	}
	sesion, err := h.sesiones.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sesion)
}

// Update godoc
// @Summary Update session
// @Tags Sesiones
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param payload body models.SesionInput true "Session payload"
// @Success 200 {object} models.Sesion
// @Router /sesiones/{id} [put]
func (h *SesionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id inválido"))
		return
	}
	var in models.SesionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload inválido"))
		return
	}
	sesion, err := h.sesiones.Update(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sesion)
}

// Delete godoc
// @Summary Delete session
// @Tags Sesiones
// @Produce json
// @Param id path int true "Session ID"
// @Success 204
// @Router /sesiones/{id} [delete]
func (h *SesionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id inválido"))
		return
	}
	if err := h.sesiones.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
