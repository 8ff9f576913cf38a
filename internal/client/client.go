package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

// API is the typed HTTP client for a PsycoAgenda backend. Collection paths
// carry a trailing slash because that is the form every deployed backend
// version serves without redirecting.
type API struct {
	baseURL string
	httpc   *http.Client
}

// NewAPI builds a client for baseURL. A zero timeout means no timeout, which
// matches how the dashboards always called the backend.
func NewAPI(baseURL string, timeout time.Duration) *API {
	return &API{
		baseURL: NormalizeBaseURL(baseURL),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the normalized base URL this client targets.
func (a *API) BaseURL() string {
	return a.baseURL
}

// Probe checks reachability with a patients listing, the cheapest endpoint
// every backend version serves.
func (a *API) Probe(ctx context.Context) error {
	return a.do(ctx, http.MethodGet, "/pacientes/", nil, nil)
}

// ListPacientes fetches the full patient collection.
func (a *API) ListPacientes(ctx context.Context) ([]models.Paciente, error) {
	var pacientes []models.Paciente
	if err := a.do(ctx, http.MethodGet, "/pacientes/", nil, &pacientes); err != nil {
		return nil, err
	}
	return pacientes, nil
}

// CreatePaciente posts a patient draft.
func (a *API) CreatePaciente(ctx context.Context, draft PacienteDraft) error {
	payload := map[string]string{"nombre": draft.Nombre}
	if draft.Email != "" {
		payload["email"] = draft.Email
	}
	if draft.Telefono != "" {
		payload["telefono"] = draft.Telefono
	}
	return a.do(ctx, http.MethodPost, "/pacientes/", payload, nil)
}

// DeletePaciente removes a patient by id.
func (a *API) DeletePaciente(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/pacientes/%d", id), nil, nil)
}

// ListSesiones fetches the full session collection.
func (a *API) ListSesiones(ctx context.Context) ([]models.Sesion, error) {
	var sesiones []models.Sesion
	if err := a.do(ctx, http.MethodGet, "/sesiones/", nil, &sesiones); err != nil {
		return nil, err
	}
	return sesiones, nil
}

// CreateSesion posts a session payload.
func (a *API) CreateSesion(ctx context.Context, in models.SesionInput) error {
	return a.do(ctx, http.MethodPost, "/sesiones/", in, nil)
}

// UpdateSesion puts the full session record.
func (a *API) UpdateSesion(ctx context.Context, id int64, in models.SesionInput) error {
	return a.do(ctx, http.MethodPut, fmt.Sprintf("/sesiones/%d", id), in, nil)
}

// DeleteSesion removes a session by id.
func (a *API) DeleteSesion(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/sesiones/%d", id), nil, nil)
}

// Estadisticas fetches the aggregate snapshot. Older backends use short field
// names (pacientes, sesiones); both spellings decode into the same struct.
func (a *API) Estadisticas(ctx context.Context) (*models.Estadisticas, error) {
	var raw map[string]json.RawMessage
	if err := a.do(ctx, http.MethodGet, "/estadisticas/", nil, &raw); err != nil {
		return nil, err
	}
	return decodeEstadisticas(raw)
}

func decodeEstadisticas(raw map[string]json.RawMessage) (*models.Estadisticas, error) {
	stats := &models.Estadisticas{}
	pick := func(out interface{}, keys ...string) error {
		for _, key := range keys {
			if value, ok := raw[key]; ok {
				return json.Unmarshal(value, out)
			}
		}
		return nil
	}
	if err := pick(&stats.TotalPacientes, "total_pacientes", "pacientes"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusBadGateway, "estadísticas inválidas")
	}
	if err := pick(&stats.TotalSesiones, "total_sesiones", "sesiones"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusBadGateway, "estadísticas inválidas")
	}
	if err := pick(&stats.Asistencia, "asistencia"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusBadGateway, "estadísticas inválidas")
	}
	if err := pick(&stats.Pagos, "pagos"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusBadGateway, "estadísticas inválidas")
	}
	if err := pick(&stats.MontoTotal, "monto_total"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusBadGateway, "estadísticas inválidas")
	}
	if err := pick(&stats.PagosPendientes, "pagos_pendientes"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusBadGateway, "estadísticas inválidas")
	}
	return stats, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "no se pudo codificar la petición")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, "CONNECTIVITY", http.StatusBadRequest, "URL inválida")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return appErrors.Wrap(err, "CONNECTIVITY", http.StatusServiceUnavailable, "no se pudo conectar con el servidor")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusBadGateway, "respuesta inválida del servidor")
	}
	return nil
}

// apiError surfaces a server-supplied detail string verbatim when present.
func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
		return appErrors.New("API_ERROR", resp.StatusCode, detail.Detail)
	}
	return appErrors.New("API_ERROR", resp.StatusCode, fmt.Sprintf("el servidor respondió %d", resp.StatusCode))
}
