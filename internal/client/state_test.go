package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/models"
)

// fakeBackend mimics the server: collections mutate on create/delete and
// every reload returns the current truth, so wholesale-replace semantics are
// observable.
type fakeBackend struct {
	pacientes []models.Paciente
	sesiones  []models.Sesion
	stats     models.Estadisticas
	nextID    int64

	createSesionCalls int
	updateCalls       int
	deleteCalls       int
}

func (f *fakeBackend) ListPacientes(context.Context) ([]models.Paciente, error) {
	return append([]models.Paciente(nil), f.pacientes...), nil
}

func (f *fakeBackend) CreatePaciente(_ context.Context, draft PacienteDraft) error {
	f.nextID++
	f.pacientes = append(f.pacientes, models.Paciente{ID: f.nextID, Nombre: draft.Nombre, Email: draft.Email, Telefono: draft.Telefono})
	return nil
}

func (f *fakeBackend) DeletePaciente(_ context.Context, id int64) error {
	kept := f.pacientes[:0]
	for _, p := range f.pacientes {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.pacientes = kept
	return nil
}

func (f *fakeBackend) ListSesiones(context.Context) ([]models.Sesion, error) {
	return append([]models.Sesion(nil), f.sesiones...), nil
}

func (f *fakeBackend) CreateSesion(_ context.Context, in models.SesionInput) error {
	f.createSesionCalls++
	f.nextID++
	sesion := models.Sesion{ID: f.nextID}
	if in.PacienteID != nil {
		sesion.PacienteID = *in.PacienteID
	}
	if in.Fecha != nil {
		sesion.Fecha = *in.Fecha
	}
	f.sesiones = append(f.sesiones, sesion)
	return nil
}

func (f *fakeBackend) UpdateSesion(_ context.Context, id int64, in models.SesionInput) error {
	f.updateCalls++
	for i := range f.sesiones {
		if f.sesiones[i].ID == id {
			if in.Fecha != nil {
				f.sesiones[i].Fecha = *in.Fecha
			}
			if resolved := in.ResolvePago(); resolved != nil {
				f.sesiones[i].Pago = *resolved
			}
		}
	}
	return nil
}

func (f *fakeBackend) DeleteSesion(_ context.Context, id int64) error {
	f.deleteCalls++
	kept := f.sesiones[:0]
	for _, s := range f.sesiones {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.sesiones = kept
	return nil
}

func (f *fakeBackend) Estadisticas(context.Context) (*models.Estadisticas, error) {
	stats := f.stats
	return &stats, nil
}

func newTestApp(backend *fakeBackend) *App {
	return NewApp(backend, zap.NewNop())
}

func TestAppCreatePacienteThenReloadContainsIt(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)

	app.NuevoPaciente = PacienteDraft{Nombre: "  Ana López  ", Email: "ana@example.com"}
	require.NoError(t, app.SubmitNuevoPaciente(context.Background()))

	require.Len(t, app.Pacientes, 1)
	assert.Equal(t, "Ana López", app.Pacientes[0].Nombre)
	assert.Equal(t, "ana@example.com", app.Pacientes[0].Email)
	// Draft cleared after a successful create.
	assert.Equal(t, PacienteDraft{}, app.NuevoPaciente)
}

func TestAppCreatePacienteEmptyNombreNoRequest(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)

	app.NuevoPaciente = PacienteDraft{Nombre: "   "}
	err := app.SubmitNuevoPaciente(context.Background())
	require.Error(t, err)
	assert.Empty(t, backend.pacientes)
	// Draft survives for correction.
	assert.Equal(t, "   ", app.NuevoPaciente.Nombre)
}

func TestAppCreateSesionMissingFieldsNoRequest(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)

	app.NuevaSesion = SesionDraft{PacienteID: "", Fecha: "2025-05-01"}
	require.Error(t, app.SubmitNuevaSesion(context.Background()))

	app.NuevaSesion = SesionDraft{PacienteID: "3", Fecha: ""}
	require.Error(t, app.SubmitNuevaSesion(context.Background()))

	app.NuevaSesion = SesionDraft{PacienteID: "not-a-number", Fecha: "2025-05-01"}
	require.Error(t, app.SubmitNuevaSesion(context.Background()))

	assert.Zero(t, backend.createSesionCalls)
	assert.Empty(t, app.Sesiones)
}

func TestAppReloadIsWholesale(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)

	app.NuevoPaciente = PacienteDraft{Nombre: "Ana"}
	require.NoError(t, app.SubmitNuevoPaciente(context.Background()))

	// A record injected behind the client's back appears on the next reload.
	backend.pacientes = append(backend.pacientes, models.Paciente{ID: 99, Nombre: "Externa"})
	require.NoError(t, app.ReloadPacientes(context.Background()))
	require.Len(t, app.Pacientes, 2)
	assert.Equal(t, "Externa", app.Pacientes[1].Nombre)
}

func TestAppPacienteNombreOrphanFallback(t *testing.T) {
	app := newTestApp(&fakeBackend{})
	app.Pacientes = []models.Paciente{{ID: 1, Nombre: "Ana"}}

	assert.Equal(t, "Ana", app.PacienteNombre(1))
	assert.Equal(t, "Desconocido", app.PacienteNombre(42))
}

func TestAppEditSesionCopiesRowAndExcludesNewDraft(t *testing.T) {
	monto := 50.0
	backend := &fakeBackend{sesiones: []models.Sesion{{
		ID: 4, PacienteID: 1, Fecha: "2025-05-01",
		Asistencia: models.AsistenciaAsistio, Pago: models.PagoPendiente,
		Monto: &monto, Notas: "primera",
	}}}
	app := newTestApp(backend)
	require.NoError(t, app.ReloadSesiones(context.Background()))

	app.NuevaSesion = SesionDraft{PacienteID: "9"}
	require.NoError(t, app.StartEditSesion(4))

	require.NotNil(t, app.SesionEnEdicion)
	assert.Equal(t, "1", app.SesionEnEdicion.PacienteID)
	assert.Equal(t, "2025-05-01", app.SesionEnEdicion.Fecha)
	assert.Equal(t, "asistio", app.SesionEnEdicion.Asistencia)
	assert.Equal(t, "50", app.SesionEnEdicion.Monto)
	// Edit mode displaces the new-session draft.
	assert.Equal(t, SesionDraft{}, app.NuevaSesion)
}

func TestAppCancelEditNoNetwork(t *testing.T) {
	backend := &fakeBackend{sesiones: []models.Sesion{{ID: 4, PacienteID: 1, Fecha: "2025-05-01"}}}
	app := newTestApp(backend)
	require.NoError(t, app.ReloadSesiones(context.Background()))
	require.NoError(t, app.StartEditSesion(4))

	app.CancelEditSesion()
	assert.Nil(t, app.SesionEnEdicion)
	assert.Zero(t, backend.updateCalls)
}

func TestAppSubmitEditSesion(t *testing.T) {
	backend := &fakeBackend{sesiones: []models.Sesion{{ID: 4, PacienteID: 1, Fecha: "2025-05-01"}}}
	app := newTestApp(backend)
	require.NoError(t, app.ReloadSesiones(context.Background()))
	require.NoError(t, app.StartEditSesion(4))

	app.SesionEnEdicion.Pago = "pagado"
	require.NoError(t, app.SubmitEditSesion(context.Background()))

	assert.Nil(t, app.SesionEnEdicion)
	assert.Equal(t, 1, backend.updateCalls)
	require.Len(t, app.Sesiones, 1)
	assert.Equal(t, models.PagoPagado, app.Sesiones[0].Pago)
}

func TestAppDeleteSesionDeclinedConfirmation(t *testing.T) {
	backend := &fakeBackend{sesiones: []models.Sesion{{ID: 4}}}
	app := newTestApp(backend)
	app.Confirm = func(string) bool { return false }

	require.NoError(t, app.DeleteSesion(context.Background(), 4))
	assert.Zero(t, backend.deleteCalls)
}

func TestAppStatisticsRenderedVerbatim(t *testing.T) {
	backend := &fakeBackend{stats: models.Estadisticas{
		TotalPacientes: 3, TotalSesiones: 5, Asistencia: "80%", Pagos: "60%",
	}}
	app := newTestApp(backend)

	require.NoError(t, app.ReloadEstadisticas(context.Background()))
	require.NotNil(t, app.Estadisticas)
	assert.Equal(t, 3, app.Estadisticas.TotalPacientes)
	assert.Equal(t, 5, app.Estadisticas.TotalSesiones)
	assert.Equal(t, "80%", app.Estadisticas.Asistencia)
	assert.Equal(t, "60%", app.Estadisticas.Pagos)
}
