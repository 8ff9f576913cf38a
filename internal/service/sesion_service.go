package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

type sesionRepository interface {
	List(ctx context.Context) ([]models.Sesion, error)
	FindByID(ctx context.Context, id int64) (*models.Sesion, error)
	Create(ctx context.Context, sesion *models.Sesion) error
	Update(ctx context.Context, sesion *models.Sesion) error
	Delete(ctx context.Context, id int64) (int64, error)
	PacienteExists(ctx context.Context, pacienteID int64) (bool, error)
}

// SesionService handles session use-cases.
type SesionService struct {
	repo   sesionRepository
	stats  statsInvalidator
	logger *zap.Logger
}

// NewSesionService constructs the session service.
func NewSesionService(repo sesionRepository, stats statsInvalidator, logger *zap.Logger) *SesionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SesionService{repo: repo, stats: stats, logger: logger}
}

// List returns every session with the legacy mirror fields populated.
func (s *SesionService) List(ctx context.Context) ([]models.Sesion, error) {
	sesiones, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudieron listar las sesiones")
	}
	for i := range sesiones {
		sesiones[i].SyncLegacy()
	}
	return sesiones, nil
}

// Create registers a new session. Patient and date are required; the foreign
// key must reference an existing patient.
func (s *SesionService) Create(ctx context.Context, in models.SesionInput) (*models.Sesion, error) {
	if in.PacienteID == nil || *in.PacienteID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "paciente_id es obligatorio")
	}
	if in.Fecha == nil || strings.TrimSpace(*in.Fecha) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha es obligatoria")
	}
	exists, err := s.repo.PacienteExists(ctx, *in.PacienteID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo verificar el paciente")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "el paciente indicado no existe")
	}
	if in.Monto != nil && *in.Monto < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "monto no puede ser negativo")
	}

	sesion := &models.Sesion{
		PacienteID: *in.PacienteID,
		Fecha:      strings.TrimSpace(*in.Fecha),
		Asistencia: models.AsistenciaPendiente,
		Pago:       models.PagoPendiente,
		Monto:      in.Monto,
	}
	if a := in.ResolveAsistencia(); a != nil {
		sesion.Asistencia = *a
	}
	if p := in.ResolvePago(); p != nil {
		sesion.Pago = *p
	}
	if n := in.ResolveNotas(); n != nil {
		sesion.Notas = strings.TrimSpace(*n)
	}
	if err := s.repo.Create(ctx, sesion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo crear la sesión")
	}
	s.invalidateStats(ctx)
	sesion.SyncLegacy()
	return sesion, nil
}

// Update merges the provided fields over the stored session. Absent fields
// keep their current values, which keeps the old partial-update clients
// working alongside the full-record one.
func (s *SesionService) Update(ctx context.Context, id int64, in models.SesionInput) (*models.Sesion, error) {
	sesion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sesión no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo cargar la sesión")
	}

	if in.PacienteID != nil {
		if *in.PacienteID <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "paciente_id inválido")
		}
		exists, err := s.repo.PacienteExists(ctx, *in.PacienteID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo verificar el paciente")
		}
		if !exists {
			return nil, appErrors.Clone(appErrors.ErrValidation, "el paciente indicado no existe")
		}
		sesion.PacienteID = *in.PacienteID
	}
	if in.Fecha != nil {
		fecha := strings.TrimSpace(*in.Fecha)
		if fecha == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "fecha es obligatoria")
		}
		sesion.Fecha = fecha
	}
	if a := in.ResolveAsistencia(); a != nil {
		sesion.Asistencia = *a
	}
	if p := in.ResolvePago(); p != nil {
		sesion.Pago = *p
	}
	if in.Monto != nil {
		if *in.Monto < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "monto no puede ser negativo")
		}
		sesion.Monto = in.Monto
	}
	if n := in.ResolveNotas(); n != nil {
		sesion.Notas = strings.TrimSpace(*n)
	}

	if err := s.repo.Update(ctx, sesion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo actualizar la sesión")
	}
	s.invalidateStats(ctx)
	sesion.SyncLegacy()
	return sesion, nil
}

// Delete removes a session.
func (s *SesionService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo eliminar la sesión")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "sesión no encontrada")
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *SesionService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
