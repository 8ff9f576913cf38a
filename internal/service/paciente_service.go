package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

type pacienteRepository interface {
	List(ctx context.Context) ([]models.Paciente, error)
	FindByID(ctx context.Context, id int64) (*models.Paciente, error)
	Create(ctx context.Context, paciente *models.Paciente) error
	Delete(ctx context.Context, id int64) (int64, error)
	CountSesiones(ctx context.Context, id int64) (int, error)
}

// CreatePacienteRequest holds the patient creation payload.
type CreatePacienteRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Telefono string `json:"telefono"`
}

// PacienteService handles patient use-cases.
type PacienteService struct {
	repo      pacienteRepository
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPacienteService constructs the patient service.
func NewPacienteService(repo pacienteRepository, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *PacienteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PacienteService{repo: repo, stats: stats, validator: validate, logger: logger}
}

// List returns the full patient collection.
func (s *PacienteService) List(ctx context.Context) ([]models.Paciente, error) {
	pacientes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudieron listar los pacientes")
	}
	return pacientes, nil
}

// Get returns one patient.
func (s *PacienteService) Get(ctx context.Context, id int64) (*models.Paciente, error) {
	paciente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "paciente no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo cargar el paciente")
	}
	return paciente, nil
}

// Create registers a new patient. The name is the only required field.
func (s *PacienteService) Create(ctx context.Context, req CreatePacienteRequest) (*models.Paciente, error) {
	req.Nombre = strings.TrimSpace(req.Nombre)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "el nombre es obligatorio")
	}
	paciente := &models.Paciente{
		Nombre:   req.Nombre,
		Email:    strings.TrimSpace(req.Email),
		Telefono: strings.TrimSpace(req.Telefono),
	}
	if err := s.repo.Create(ctx, paciente); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo crear el paciente")
	}
	s.invalidateStats(ctx)
	return paciente, nil
}

// Delete removes a patient. Patients with registered sessions are protected;
// the dashboards surface the detail string verbatim.
func (s *PacienteService) Delete(ctx context.Context, id int64) error {
	count, err := s.repo.CountSesiones(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo verificar las sesiones del paciente")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPacienteEnUso, "")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "no se pudo eliminar el paciente")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "paciente no encontrado")
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *PacienteService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
