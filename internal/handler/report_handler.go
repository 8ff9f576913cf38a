package handler

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
	"github.com/psycoagenda/psycoagenda/pkg/response"
)

type reportService interface {
	Enqueue(format string) (*models.ReportJob, error)
	Get(id string) (*models.ReportJob, error)
	ResolveDownload(id, token string) (string, error)
}

// ReportHandler exposes the agenda export endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type enqueueReportRequest struct {
	Format string `json:"formato"`
}

// Enqueue godoc
// @Summary Queue an agenda export
// @Tags Reportes
// @Accept json
// @Produce json
// @Param payload body enqueueReportRequest true "Export format: csv or pdf"
// @Success 202 {object} models.ReportJob
// @Router /reportes [post]
func (h *ReportHandler) Enqueue(c *gin.Context) {
	var req enqueueReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "payload inválido"))
		return
	}
	job, err := h.reports.Enqueue(req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job)
}

// Get godoc
// @Summary Report job status
// @Tags Reportes
// @Produce json
// @Param id path string true "Report job ID"
// @Success 200 {object} models.ReportJob
// @Failure 404 {object} response.Detail
// @Router /reportes/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	job, err := h.reports.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}

// Download godoc
// @Summary Download a finished report
// @Tags Reportes
// @Produce octet-stream
// @Param id path string true "Report job ID"
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Detail
// @Router /reportes/{id}/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	path, err := h.reports.ResolveDownload(c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, "agenda_"+c.Param("id")+filepath.Ext(path))
}
