package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psycoagenda/psycoagenda/internal/models"
)

func TestSesionRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSesionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "paciente_id", "fecha", "asistencia", "pago", "monto", "notas", "created_at"}).
		AddRow(1, 1, "2025-05-01T15:00", "asistio", "pagado", 50.0, "", time.Now()).
		AddRow(2, 1, "2025-05-08T15:00", "pendiente", "pendiente", nil, "", time.Now())
	mock.ExpectQuery("SELECT id, paciente_id, fecha, asistencia, pago, monto, notas, created_at FROM sesiones ORDER BY").
		WillReturnRows(rows)

	sesiones, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sesiones, 2)
	assert.Equal(t, models.AsistenciaAsistio, sesiones[0].Asistencia)
	assert.Nil(t, sesiones[1].Monto)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSesionRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSesionRepository(db)

	mock.ExpectQuery("INSERT INTO sesiones").
		WithArgs(int64(1), "2025-05-01T15:00", models.AsistenciaPendiente, models.PagoPendiente, nil, "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	sesion := &models.Sesion{
		PacienteID: 1,
		Fecha:      "2025-05-01T15:00",
		Asistencia: models.AsistenciaPendiente,
		Pago:       models.PagoPendiente,
	}
	require.NoError(t, repo.Create(context.Background(), sesion))
	assert.Equal(t, int64(11), sesion.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSesionRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSesionRepository(db)

	monto := 60.0
	mock.ExpectExec("UPDATE sesiones SET").
		WithArgs(int64(11), int64(1), "2025-05-01T16:00", models.AsistenciaAsistio, models.PagoPagado, 60.0, "reprogramada").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sesion := &models.Sesion{
		ID:         11,
		PacienteID: 1,
		Fecha:      "2025-05-01T16:00",
		Asistencia: models.AsistenciaAsistio,
		Pago:       models.PagoPagado,
		Monto:      &monto,
		Notas:      "reprogramada",
	}
	require.NoError(t, repo.Update(context.Background(), sesion))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSesionRepositoryPacienteExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSesionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM pacientes WHERE id = $1)")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.PacienteExists(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
