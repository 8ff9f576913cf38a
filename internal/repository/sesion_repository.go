package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/psycoagenda/psycoagenda/internal/models"
)

// SesionRepository manages persistence for session records.
type SesionRepository struct {
	db *sqlx.DB
}

// NewSesionRepository constructs a SesionRepository.
func NewSesionRepository(db *sqlx.DB) *SesionRepository {
	return &SesionRepository{db: db}
}

// List returns the full session collection ordered by date.
func (r *SesionRepository) List(ctx context.Context) ([]models.Sesion, error) {
	const query = `SELECT id, paciente_id, fecha, asistencia, pago, monto, notas, created_at FROM sesiones ORDER BY fecha ASC, id ASC`
	sesiones := make([]models.Sesion, 0)
	if err := r.db.SelectContext(ctx, &sesiones, query); err != nil {
		return nil, fmt.Errorf("list sesiones: %w", err)
	}
	return sesiones, nil
}

// FindByID fetches a session by ID.
func (r *SesionRepository) FindByID(ctx context.Context, id int64) (*models.Sesion, error) {
	const query = `SELECT id, paciente_id, fecha, asistencia, pago, monto, notas, created_at FROM sesiones WHERE id = $1`
	var sesion models.Sesion
	if err := r.db.GetContext(ctx, &sesion, query, id); err != nil {
		return nil, err
	}
	return &sesion, nil
}

// Create inserts a new session and fills in the assigned ID.
func (r *SesionRepository) Create(ctx context.Context, sesion *models.Sesion) error {
	if sesion.CreatedAt.IsZero() {
		sesion.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO sesiones (paciente_id, fecha, asistencia, pago, monto, notas, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &sesion.ID, query,
		sesion.PacienteID, sesion.Fecha, sesion.Asistencia, sesion.Pago, sesion.Monto, sesion.Notas, sesion.CreatedAt); err != nil {
		return fmt.Errorf("create sesion: %w", err)
	}
	return nil
}

// Update rewrites every mutable column of a session.
func (r *SesionRepository) Update(ctx context.Context, sesion *models.Sesion) error {
	const query = `UPDATE sesiones SET paciente_id = $2, fecha = $3, asistencia = $4, pago = $5, monto = $6, notas = $7 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		sesion.ID, sesion.PacienteID, sesion.Fecha, sesion.Asistencia, sesion.Pago, sesion.Monto, sesion.Notas); err != nil {
		return fmt.Errorf("update sesion: %w", err)
	}
	return nil
}

// Delete removes a session row.
func (r *SesionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM sesiones WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete sesion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sesion: %w", err)
	}
	return affected, nil
}

// PacienteExists checks the session's foreign key before insert.
func (r *SesionRepository) PacienteExists(ctx context.Context, pacienteID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM pacientes WHERE id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, pacienteID); err != nil {
		return false, fmt.Errorf("check paciente: %w", err)
	}
	return exists, nil
}
