package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psycoagenda/psycoagenda/internal/models"
	appErrors "github.com/psycoagenda/psycoagenda/pkg/errors"
)

type fakeSesionSrv struct {
	sesiones  []models.Sesion
	result    *models.Sesion
	err       error
	lastInput models.SesionInput
	lastID    int64
}

func (f *fakeSesionSrv) List(context.Context) ([]models.Sesion, error) {
	return f.sesiones, f.err
}

func (f *fakeSesionSrv) Create(_ context.Context, in models.SesionInput) (*models.Sesion, error) {
	f.lastInput = in
	return f.result, f.err
}

func (f *fakeSesionSrv) Update(_ context.Context, id int64, in models.SesionInput) (*models.Sesion, error) {
	f.lastID = id
	f.lastInput = in
	return f.result, f.err
}

func (f *fakeSesionSrv) Delete(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func TestSesionHandlerListEmitsLegacyMirrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sesion := models.Sesion{ID: 1, PacienteID: 2, Fecha: "2025-05-01", Asistencia: models.AsistenciaAsistio, Pago: models.PagoPendiente}
	sesion.SyncLegacy()
	handler := NewSesionHandler(&fakeSesionSrv{sesiones: []models.Sesion{sesion}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sesiones", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "asistio", got[0]["asistencia"])
	assert.Equal(t, true, got[0]["asistio"])
	assert.Equal(t, false, got[0]["pago_realizado"])
}

func TestSesionHandlerCreateAcceptsLegacyBooleans(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSesionSrv{result: &models.Sesion{ID: 5}}
	handler := NewSesionHandler(srv)

	body := `{"paciente_id":2,"fecha":"2025-05-01","asistio":true,"pago_realizado":false}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/sesiones", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, srv.lastInput.Asistio)
	assert.Equal(t, models.AsistenciaAsistio, *srv.lastInput.Asistio)
	require.NotNil(t, srv.lastInput.PagoRealizado)
	assert.Equal(t, models.PagoPendiente, *srv.lastInput.PagoRealizado)
}

func TestSesionHandlerUpdatePartialPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSesionSrv{result: &models.Sesion{ID: 9}}
	handler := NewSesionHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/sesiones/9", strings.NewReader(`{"pago":"pagado"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	handler.Update(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), srv.lastID)
	assert.Nil(t, srv.lastInput.Fecha)
	require.NotNil(t, srv.lastInput.Pago)
	assert.Equal(t, models.PagoPagado, *srv.lastInput.Pago)
}

func TestSesionHandlerUpdateNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSesionHandler(&fakeSesionSrv{err: appErrors.Clone(appErrors.ErrNotFound, "sesión no encontrada")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/sesiones/99", strings.NewReader(`{"fecha":"2025-06-01"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	handler.Update(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "sesión no encontrada")
}

func TestSesionHandlerDeleteBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSesionHandler(&fakeSesionSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/sesiones/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
