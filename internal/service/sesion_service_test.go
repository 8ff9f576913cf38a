package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

type mockSesionRepo struct {
	sesiones  map[int64]models.Sesion
	pacientes map[int64]bool
	nextID    int64
	deleted   []int64
}

func (m *mockSesionRepo) List(ctx context.Context) ([]models.Sesion, error) {
	out := make([]models.Sesion, 0, len(m.sesiones))
	for _, s := range m.sesiones {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSesionRepo) FindByID(ctx context.Context, id int64) (*models.Sesion, error) {
	if s, ok := m.sesiones[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSesionRepo) Create(ctx context.Context, sesion *models.Sesion) error {
	if m.sesiones == nil {
		m.sesiones = make(map[int64]models.Sesion)
	}
	m.nextID++
	sesion.ID = m.nextID
	m.sesiones[sesion.ID] = *sesion
	return nil
}

func (m *mockSesionRepo) Update(ctx context.Context, sesion *models.Sesion) error {
	m.sesiones[sesion.ID] = *sesion
	return nil
}

func (m *mockSesionRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := m.sesiones[id]; !ok {
		return 0, nil
	}
	delete(m.sesiones, id)
	m.deleted = append(m.deleted, id)
	return 1, nil
}

func (m *mockSesionRepo) PacienteExists(ctx context.Context, pacienteID int64) (bool, error) {
	return m.pacientes[pacienteID], nil
}

func int64ptr(v int64) *int64 { return &v }

func strptr(v string) *string { return &v }

func TestSesionServiceCreate(t *testing.T) {
	repo := &mockSesionRepo{pacientes: map[int64]bool{1: true}}
	stats := &recordingInvalidator{}
	svc := NewSesionService(repo, stats, zap.NewNop())

	sesion, err := svc.Create(context.Background(), models.SesionInput{
		PacienteID: int64ptr(1),
		Fecha:      strptr("2025-05-01T15:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sesion.ID)
	assert.Equal(t, models.AsistenciaPendiente, sesion.Asistencia)
	assert.Equal(t, models.PagoPendiente, sesion.Pago)
	assert.False(t, sesion.Asistio)
	assert.Equal(t, 1, stats.calls)
}

func TestSesionServiceCreateRequiresPacienteAndFecha(t *testing.T) {
	repo := &mockSesionRepo{pacientes: map[int64]bool{1: true}}
	svc := NewSesionService(repo, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), models.SesionInput{Fecha: strptr("2025-05-01")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), models.SesionInput{PacienteID: int64ptr(1)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	assert.Empty(t, repo.sesiones)
}

func TestSesionServiceCreateUnknownPaciente(t *testing.T) {
	repo := &mockSesionRepo{pacientes: map[int64]bool{}}
	svc := NewSesionService(repo, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), models.SesionInput{
		PacienteID: int64ptr(9),
		Fecha:      strptr("2025-05-01"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSesionServiceCreateLegacyBooleans(t *testing.T) {
	repo := &mockSesionRepo{pacientes: map[int64]bool{1: true}}
	svc := NewSesionService(repo, nil, zap.NewNop())

	asistio := models.AsistenciaAsistio
	pago := models.PagoPagado
	sesion, err := svc.Create(context.Background(), models.SesionInput{
		PacienteID: int64ptr(1),
		Fecha:      strptr("2025-05-01"),
		Asistio:    &asistio,
		Pago:       &pago,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AsistenciaAsistio, sesion.Asistencia)
	assert.True(t, sesion.Asistio)
	assert.True(t, sesion.PagoRealizado)
}

func TestSesionServiceUpdateMergesPartialInput(t *testing.T) {
	monto := 50.0
	repo := &mockSesionRepo{
		pacientes: map[int64]bool{1: true},
		sesiones: map[int64]models.Sesion{
			7: {ID: 7, PacienteID: 1, Fecha: "2025-05-01", Asistencia: models.AsistenciaPendiente, Pago: models.PagoPendiente, Monto: &monto},
		},
		nextID: 7,
	}
	svc := NewSesionService(repo, nil, zap.NewNop())

	pago := models.PagoPagado
	updated, err := svc.Update(context.Background(), 7, models.SesionInput{PagoRealizado: &pago})
	require.NoError(t, err)
	assert.Equal(t, models.PagoPagado, updated.Pago)
	assert.Equal(t, "2025-05-01", updated.Fecha)
	assert.Equal(t, models.AsistenciaPendiente, updated.Asistencia)
	require.NotNil(t, updated.Monto)
	assert.Equal(t, 50.0, *updated.Monto)
}

func TestSesionServiceUpdateNotFound(t *testing.T) {
	svc := NewSesionService(&mockSesionRepo{}, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), 99, models.SesionInput{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSesionServiceRejectsNegativeMonto(t *testing.T) {
	repo := &mockSesionRepo{pacientes: map[int64]bool{1: true}}
	svc := NewSesionService(repo, nil, zap.NewNop())

	monto := -5.0
	_, err := svc.Create(context.Background(), models.SesionInput{
		PacienteID: int64ptr(1),
		Fecha:      strptr("2025-05-01"),
		Monto:      &monto,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSesionServiceDelete(t *testing.T) {
	repo := &mockSesionRepo{sesiones: map[int64]models.Sesion{7: {ID: 7}}}
	stats := &recordingInvalidator{}
	svc := NewSesionService(repo, stats, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 7))
	assert.Contains(t, repo.deleted, int64(7))
	assert.Equal(t, 1, stats.calls)

	err := svc.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
