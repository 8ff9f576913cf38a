package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
	"github.com/psycoagenda/psycoagenda/pkg/export"
	"github.com/psycoagenda/psycoagenda/pkg/jobs"
	"github.com/psycoagenda/psycoagenda/pkg/storage"
)

type agendaLister interface {
	List(ctx context.Context) ([]models.Sesion, error)
}

type pacienteLister interface {
	List(ctx context.Context) ([]models.Paciente, error)
}

// ReportService generates agenda exports asynchronously. Jobs live in memory:
// the agenda is a single-process tool and a lost job just means re-requesting
// the export.
type ReportService struct {
	sesiones  agendaLister
	pacientes pacienteLister
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	queue     *jobs.Queue
	logger    *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*models.ReportJob
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Sesiones  agendaLister
	Pacientes pacienteLister
	Store     *storage.LocalStorage
	Signer    *storage.SignedURLSigner
	Logger    *zap.Logger
	Workers   int
	Retries   int
}

// NewReportService constructs the report service and its worker queue. Call
// Start before enqueueing.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		sesiones:  params.Sesiones,
		pacientes: params.Pacientes,
		store:     params.Store,
		signer:    params.Signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
		jobs:      make(map[string]*models.ReportJob),
	}
	s.queue = jobs.NewQueue("reportes", s.process, jobs.QueueConfig{
		Workers:    params.Workers,
		MaxRetries: params.Retries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// Enqueue registers a new export job for the given format.
func (s *ReportService) Enqueue(format string) (*models.ReportJob, error) {
	if format != models.ReportFormatCSV && format != models.ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "formato debe ser csv o pdf")
	}
	job := &models.ReportJob{
		ID:        uuid.NewString(),
		Format:    format,
		Status:    models.ReportStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "agenda_export", Payload: format}); err != nil {
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo encolar el reporte")
	}
	return s.snapshot(job.ID), nil
}

// Get returns the job state, with a signed download URL once completed.
func (s *ReportService) Get(id string) (*models.ReportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "reporte no encontrado")
	}
	if job.Status == models.ReportStatusDone && s.signer != nil {
		token, _, err := s.signer.Generate(job.ID, job.FilePath)
		if err == nil {
			job.DownloadURL = fmt.Sprintf("/reportes/%s/download?token=%s", job.ID, token)
		}
	}
	return job, nil
}

// ResolveDownload validates a signed token and returns the stored file path.
func (s *ReportService) ResolveDownload(id, token string) (string, error) {
	if s.signer == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "descargas deshabilitadas")
	}
	reportID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil || reportID != id {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "token de descarga inválido")
	}
	return s.store.Path(relPath), nil
}

// CleanupLoop periodically removes expired report files.
func (s *ReportService) CleanupLoop(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if deleted, err := s.store.CleanupOlderThan(ttl); err != nil {
				s.logger.Warn("report cleanup failed", zap.Error(err))
			} else if len(deleted) > 0 {
				s.logger.Sugar().Infow("report files cleaned", "count", len(deleted))
			}
		}
	}
}

func (s *ReportService) process(ctx context.Context, job jobs.Job) error {
	s.setStatus(job.ID, models.ReportStatusProcessing, "")

	dataset, err := s.buildDataset(ctx)
	if err != nil {
		s.setStatus(job.ID, models.ReportStatusFailed, err.Error())
		return err
	}

	format, _ := job.Payload.(string)
	var rendered []byte
	switch format {
	case models.ReportFormatPDF:
		rendered, err = s.pdf.Render(*dataset, "Agenda de sesiones")
	default:
		rendered, err = s.csv.Render(*dataset)
	}
	if err != nil {
		s.setStatus(job.ID, models.ReportStatusFailed, err.Error())
		return err
	}

	filename := fmt.Sprintf("agenda/%s.%s", job.ID, format)
	if _, err := s.store.Save(filename, rendered); err != nil {
		s.setStatus(job.ID, models.ReportStatusFailed, err.Error())
		return err
	}

	s.complete(job.ID, filename)
	return nil
}

// buildDataset flattens the agenda into rows with resolved patient names.
func (s *ReportService) buildDataset(ctx context.Context) (*export.Dataset, error) {
	sesiones, err := s.sesiones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sesiones: %w", err)
	}
	pacientes, err := s.pacientes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pacientes: %w", err)
	}
	nombres := make(map[int64]string, len(pacientes))
	for _, p := range pacientes {
		nombres[p.ID] = p.Nombre
	}

	dataset := &export.Dataset{
		Headers: []string{"Fecha", "Paciente", "Asistencia", "Pago", "Monto", "Notas"},
	}
	for _, sesion := range sesiones {
		nombre, ok := nombres[sesion.PacienteID]
		if !ok {
			nombre = "Desconocido"
		}
		monto := ""
		if sesion.Monto != nil {
			monto = strconv.FormatFloat(*sesion.Monto, 'f', 2, 64)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Fecha":      sesion.Fecha,
			"Paciente":   nombre,
			"Asistencia": string(sesion.Asistencia),
			"Pago":       string(sesion.Pago),
			"Monto":      monto,
			"Notas":      sesion.Notas,
		})
	}
	return dataset, nil
}

func (s *ReportService) snapshot(id string) *models.ReportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil
	}
	copy := *job
	return &copy
}

func (s *ReportService) setStatus(id, status, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = status
		job.Error = errMsg
	}
}

func (s *ReportService) complete(id, filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		now := time.Now().UTC()
		job.Status = models.ReportStatusDone
		job.FilePath = filename
		job.CompletedAt = &now
	}
}
