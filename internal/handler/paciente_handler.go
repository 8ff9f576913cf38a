package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/psycoagenda/psycoagenda/internal/models"
	"github.com/psycoagenda/psycoagenda/internal/service"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
	"github.com/psycoagenda/psycoagenda/pkg/response"
)

type pacienteService interface {
	List(ctx context.Context) ([]models.Paciente, error)
	Create(ctx context.Context, req service.CreatePacienteRequest) (*models.Paciente, error)
	Delete(ctx context.Context, id int64) error
}

// PacienteHandler exposes the patient endpoints.
type PacienteHandler struct {
	pacientes pacienteService
}

// NewPacienteHandler constructs PacienteHandler.
func NewPacienteHandler(pacientes pacienteService) *PacienteHandler {
	return &PacienteHandler{pacientes: pacientes}
}

// List godoc
// @Summary List patients
// @Tags Pacientes
// @Produce json
// @Success 200 {array} models.Paciente
// @Router /pacientes [get]
func (h *PacienteHandler) List(c *gin.Context) {
	pacientes, err := h.pacientes.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pacientes)
}

// Create godoc
// @Summary Create patient
// @Tags Pacientes
// @Accept json
// @Produce json
// @Param payload body service.CreatePacienteRequest true "Patient payload"
// @Success 201 {object} models.Paciente
// @Router /pacientes [post]
func (h *PacienteHandler) Create(c *gin.Context) {
	var req service.CreatePacienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload inválido"))
		return
	}
	paciente, err := h.pacientes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, paciente)
}

// Delete godoc
// @Summary Delete patient
// @Tags Pacientes
// @Produce json
// @Param id path int true "Patient ID"
// @Success 204
// @Failure 409 {object} response.Detail
// @Router /pacientes/{id} [delete]
func (h *PacienteHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id inválido"))
		return
	}
	if err := h.pacientes.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
