package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psycoagenda/psycoagenda/internal/models"
	"github.com/psycoagenda/psycoagenda/pkg/response"
)

type estadisticasService interface {
	Snapshot(ctx context.Context) (*models.Estadisticas, bool, error)
}

// EstadisticasHandler exposes the practice statistics endpoint.
type EstadisticasHandler struct {
	estadisticas estadisticasService
}

// NewEstadisticasHandler constructs EstadisticasHandler.
func NewEstadisticasHandler(estadisticas estadisticasService) *EstadisticasHandler {
	return &EstadisticasHandler{estadisticas: estadisticas}
}

// Get godoc
// @Summary Practice statistics
// @Tags Estadisticas
// @Produce json
// @Success 200 {object} models.Estadisticas
// @Router /estadisticas [get]
func (h *EstadisticasHandler) Get(c *gin.Context) {
	stats, cached, err := h.estadisticas.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	}
	response.JSON(c, http.StatusOK, stats)
}
