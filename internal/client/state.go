package client

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

// OrphanPacienteNombre is displayed for sessions whose patient no longer
// exists in the loaded roster.
const OrphanPacienteNombre = "Desconocido"

// backendAPI is the slice of API the application state consumes.
type backendAPI interface {
	ListPacientes(ctx context.Context) ([]models.Paciente, error)
	CreatePaciente(ctx context.Context, draft PacienteDraft) error
	DeletePaciente(ctx context.Context, id int64) error
	ListSesiones(ctx context.Context) ([]models.Sesion, error)
	CreateSesion(ctx context.Context, in models.SesionInput) error
	UpdateSesion(ctx context.Context, id int64, in models.SesionInput) error
	DeleteSesion(ctx context.Context, id int64) error
	Estadisticas(ctx context.Context) (*models.Estadisticas, error)
}

// PacienteDraft is the transient new-patient form buffer.
type PacienteDraft struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

// SesionDraft is the transient session form buffer. Numeric fields stay
// strings until submission: a failed parse defaults rather than erroring,
// the way the form inputs always behaved.
type SesionDraft struct {
	ID         int64  `json:"id,omitempty"`
	PacienteID string `json:"paciente_id"`
	Fecha      string `json:"fecha"`
	Asistencia string `json:"asistencia"`
	Pago       string `json:"pago"`
	Monto      string `json:"monto"`
	Notas      string `json:"notas"`
}

// App is the whole client-side application state: loaded collections, the
// statistics snapshot and the form drafts. All transitions go through its
// methods; the struct itself serializes cleanly.
type App struct {
	api    backendAPI
	logger *zap.Logger

	// Confirm gates destructive actions. Nil means proceed.
	Confirm func(message string) bool `json:"-"`

	Pacientes    []models.Paciente    `json:"pacientes"`
	Sesiones     []models.Sesion      `json:"sesiones"`
	Estadisticas *models.Estadisticas `json:"estadisticas,omitempty"`

	NuevoPaciente   PacienteDraft `json:"nuevo_paciente"`
	NuevaSesion     SesionDraft   `json:"nueva_sesion"`
	SesionEnEdicion *SesionDraft  `json:"sesion_en_edicion,omitempty"`
}

// NewApp builds the application state around an API client.
func NewApp(api backendAPI, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{api: api, logger: logger}
}

// ReloadPacientes replaces the patient collection wholesale.
func (a *App) ReloadPacientes(ctx context.Context) error {
	pacientes, err := a.api.ListPacientes(ctx)
	if err != nil {
		return err
	}
	a.Pacientes = pacientes
	return nil
}

// ReloadSesiones replaces the session collection wholesale.
func (a *App) ReloadSesiones(ctx context.Context) error {
	sesiones, err := a.api.ListSesiones(ctx)
	if err != nil {
		return err
	}
	a.Sesiones = sesiones
	return nil
}

// ReloadEstadisticas replaces the statistics snapshot. Values are stored as
// received; nothing is recomputed locally.
func (a *App) ReloadEstadisticas(ctx context.Context) error {
	stats, err := a.api.Estadisticas(ctx)
	if err != nil {
		return err
	}
	a.Estadisticas = stats
	return nil
}

// ReloadAll is the bulk refresh triggered after connecting and by the manual
// refresh action.
func (a *App) ReloadAll(ctx context.Context) error {
	if err := a.ReloadPacientes(ctx); err != nil {
		return err
	}
	if err := a.ReloadSesiones(ctx); err != nil {
		return err
	}
	return a.ReloadEstadisticas(ctx)
}

// SubmitNuevoPaciente validates the draft, creates the patient and reloads.
// An invalid draft never reaches the network; the draft survives failed
// submissions for resubmission.
func (a *App) SubmitNuevoPaciente(ctx context.Context) error {
	nombre := strings.TrimSpace(a.NuevoPaciente.Nombre)
	if nombre == "" {
		return appErrors.Clone(appErrors.ErrValidation, "el nombre es obligatorio")
	}
	draft := a.NuevoPaciente
	draft.Nombre = nombre
	if err := a.api.CreatePaciente(ctx, draft); err != nil {
		return err
	}
	a.NuevoPaciente = PacienteDraft{}
	if err := a.ReloadPacientes(ctx); err != nil {
		return err
	}
	return a.ReloadEstadisticas(ctx)
}

// DeletePaciente asks for confirmation, deletes and reloads. The backend may
// refuse when sessions reference the patient; its detail surfaces verbatim.
func (a *App) DeletePaciente(ctx context.Context, id int64) error {
	if a.Confirm != nil && !a.Confirm("¿Eliminar este paciente?") {
		return nil
	}
	if err := a.api.DeletePaciente(ctx, id); err != nil {
		return err
	}
	if err := a.ReloadPacientes(ctx); err != nil {
		return err
	}
	if err := a.ReloadSesiones(ctx); err != nil {
		return err
	}
	return a.ReloadEstadisticas(ctx)
}

// EditNuevaSesion switches to the new-session form, leaving edit mode. The
// two drafts are mutually exclusive.
func (a *App) EditNuevaSesion() *SesionDraft {
	a.SesionEnEdicion = nil
	return &a.NuevaSesion
}

// SubmitNuevaSesion validates the draft, creates the session and reloads.
// Missing patient or date blocks submission before any request is issued.
func (a *App) SubmitNuevaSesion(ctx context.Context) error {
	input, err := a.NuevaSesion.toInput()
	if err != nil {
		return err
	}
	if err := a.api.CreateSesion(ctx, *input); err != nil {
		return err
	}
	a.NuevaSesion = SesionDraft{}
	if err := a.ReloadSesiones(ctx); err != nil {
		return err
	}
	return a.ReloadEstadisticas(ctx)
}

// StartEditSesion copies the row's current values into the edit draft and
// clears the new-session draft.
func (a *App) StartEditSesion(id int64) error {
	for _, sesion := range a.Sesiones {
		if sesion.ID != id {
			continue
		}
		draft := &SesionDraft{
			ID:         sesion.ID,
			PacienteID: strconv.FormatInt(sesion.PacienteID, 10),
			Fecha:      sesion.Fecha,
			Asistencia: string(sesion.Asistencia),
			Pago:       string(sesion.Pago),
			Notas:      sesion.Notas,
		}
		if sesion.Monto != nil {
			draft.Monto = strconv.FormatFloat(*sesion.Monto, 'f', -1, 64)
		}
		a.NuevaSesion = SesionDraft{}
		a.SesionEnEdicion = draft
		return nil
	}
	return appErrors.Clone(appErrors.ErrNotFound, "sesión no encontrada")
}

// CancelEditSesion discards the edit draft without contacting the backend.
func (a *App) CancelEditSesion() {
	a.SesionEnEdicion = nil
}

// SubmitEditSesion puts the edited session and reloads. The draft is kept on
// failure so the user can resubmit.
func (a *App) SubmitEditSesion(ctx context.Context) error {
	if a.SesionEnEdicion == nil {
		return appErrors.Clone(appErrors.ErrValidation, "no hay sesión en edición")
	}
	input, err := a.SesionEnEdicion.toInput()
	if err != nil {
		return err
	}
	if err := a.api.UpdateSesion(ctx, a.SesionEnEdicion.ID, *input); err != nil {
		return err
	}
	a.SesionEnEdicion = nil
	if err := a.ReloadSesiones(ctx); err != nil {
		return err
	}
	return a.ReloadEstadisticas(ctx)
}

// DeleteSesion asks for confirmation, deletes and reloads.
func (a *App) DeleteSesion(ctx context.Context, id int64) error {
	if a.Confirm != nil && !a.Confirm("¿Eliminar esta sesión?") {
		return nil
	}
	if err := a.api.DeleteSesion(ctx, id); err != nil {
		return err
	}
	if err := a.ReloadSesiones(ctx); err != nil {
		return err
	}
	return a.ReloadEstadisticas(ctx)
}

// PacienteNombre resolves a patient's display name from the loaded roster,
// falling back to the orphan label when the id is unknown.
func (a *App) PacienteNombre(id int64) string {
	for _, paciente := range a.Pacientes {
		if paciente.ID == id {
			return paciente.Nombre
		}
	}
	return OrphanPacienteNombre
}

func (d SesionDraft) toInput() (*models.SesionInput, error) {
	pacienteID, err := strconv.ParseInt(strings.TrimSpace(d.PacienteID), 10, 64)
	if err != nil {
		pacienteID = 0
	}
	if pacienteID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "debe seleccionar un paciente")
	}
	fecha := strings.TrimSpace(d.Fecha)
	if fecha == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "la fecha es obligatoria")
	}

	input := &models.SesionInput{
		PacienteID: &pacienteID,
		Fecha:      &fecha,
	}
	if d.Asistencia != "" {
		asistencia := models.Asistencia(d.Asistencia)
		if !asistencia.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "asistencia inválida")
		}
		input.Asistencia = &asistencia
	}
	if d.Pago != "" {
		pago := models.Pago(d.Pago)
		if !pago.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "pago inválido")
		}
		input.Pago = &pago
	}
	if raw := strings.TrimSpace(d.Monto); raw != "" {
		if monto, err := strconv.ParseFloat(raw, 64); err == nil {
			input.Monto = &monto
		}
	}
	if d.Notas != "" {
		notas := d.Notas
		input.Notas = &notas
	}
	return input, nil
}

var _ backendAPI = (*API)(nil)
