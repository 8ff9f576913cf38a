package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/psycoagenda/psycoagenda/internal/models"
)

// PacienteRepository manages persistence for patient records.
type PacienteRepository struct {
	db *sqlx.DB
}

// NewPacienteRepository constructs a PacienteRepository.
func NewPacienteRepository(db *sqlx.DB) *PacienteRepository {
	return &PacienteRepository{db: db}
}

// List returns the full patient collection, oldest first. The dashboards
// reload it wholesale, so there is no pagination.
func (r *PacienteRepository) List(ctx context.Context) ([]models.Paciente, error) {
	const query = `SELECT id, nombre, email, telefono, created_at FROM pacientes ORDER BY id ASC`
	pacientes := make([]models.Paciente, 0)
	if err := r.db.SelectContext(ctx, &pacientes, query); err != nil {
		return nil, fmt.Errorf("list pacientes: %w", err)
	}
	return pacientes, nil
}

// FindByID fetches a patient by ID.
func (r *PacienteRepository) FindByID(ctx context.Context, id int64) (*models.Paciente, error) {
	const query = `SELECT id, nombre, email, telefono, created_at FROM pacientes WHERE id = $1`
	var paciente models.Paciente
	if err := r.db.GetContext(ctx, &paciente, query, id); err != nil {
		return nil, err
	}
	return &paciente, nil
}

// Create inserts a new patient and fills in the assigned ID.
func (r *PacienteRepository) Create(ctx context.Context, paciente *models.Paciente) error {
	if paciente.CreatedAt.IsZero() {
		paciente.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO pacientes (nombre, email, telefono, created_at)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &paciente.ID, query, paciente.Nombre, paciente.Email, paciente.Telefono, paciente.CreatedAt); err != nil {
		return fmt.Errorf("create paciente: %w", err)
	}
	return nil
}

// Delete removes a patient row. It reports how many rows were affected so the
// service can distinguish a missing patient.
func (r *PacienteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM pacientes WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete paciente: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete paciente: %w", err)
	}
	return affected, nil
}

// CountSesiones returns how many sessions reference the patient.
func (r *PacienteRepository) CountSesiones(ctx context.Context, id int64) (int, error) {
	const query = `SELECT COUNT(*) FROM sesiones WHERE paciente_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count sesiones for paciente: %w", err)
	}
	return count, nil
}
