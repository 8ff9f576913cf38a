package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/psycoagenda/psycoagenda/internal/models"
	"github.com/psycoagenda/psycoagenda/pkg/storage"
)

type staticAgenda struct {
	sesiones []models.Sesion
}

func (s *staticAgenda) List(ctx context.Context) ([]models.Sesion, error) {
	return s.sesiones, nil
}

type staticPacientes struct {
	pacientes []models.Paciente
}

func (s *staticPacientes) List(ctx context.Context) ([]models.Paciente, error) {
	return s.pacientes, nil
}

func newTestReportService(t *testing.T) *ReportService {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	monto := 50.0
	svc := NewReportService(ReportServiceParams{
		Sesiones: &staticAgenda{sesiones: []models.Sesion{
			{ID: 1, PacienteID: 1, Fecha: "2025-05-01", Asistencia: models.AsistenciaAsistio, Pago: models.PagoPagado, Monto: &monto},
			{ID: 2, PacienteID: 9, Fecha: "2025-05-08", Asistencia: models.AsistenciaPendiente, Pago: models.PagoPendiente},
		}},
		Pacientes: &staticPacientes{pacientes: []models.Paciente{{ID: 1, Nombre: "Ana López"}}},
		Store:     store,
		Signer:    storage.NewSignedURLSigner("secret", time.Minute),
		Logger:    zap.NewNop(),
	})
	return svc
}

func waitForJob(t *testing.T, svc *ReportService, id string) *models.ReportJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Get(id)
		require.NoError(t, err)
		if job.Status == models.ReportStatusDone || job.Status == models.ReportStatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("report job did not finish in time")
	return nil
}

func TestReportServiceCSVExport(t *testing.T) {
	svc := newTestReportService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	job, err := svc.Enqueue(models.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, job.Status)

	done := waitForJob(t, svc, job.ID)
	require.Equal(t, models.ReportStatusDone, done.Status)
	assert.NotEmpty(t, done.DownloadURL)

	path, err := svc.ResolveDownload(done.ID, downloadToken(done.DownloadURL))
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "Ana López")
	// Sessions pointing at a missing patient fall back to the orphan label.
	assert.Contains(t, content, "Desconocido")
}

func TestReportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newTestReportService(t)
	_, err := svc.Enqueue("xlsx")
	require.Error(t, err)
}

func TestReportServiceGetUnknownJob(t *testing.T) {
	svc := newTestReportService(t)
	_, err := svc.Get("nope")
	require.Error(t, err)
}

func TestReportServiceDownloadTokenValidation(t *testing.T) {
	svc := newTestReportService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	job, err := svc.Enqueue(models.ReportFormatCSV)
	require.NoError(t, err)
	done := waitForJob(t, svc, job.ID)

	_, err = svc.ResolveDownload(done.ID, "tampered")
	assert.Error(t, err)
}

func downloadToken(url string) string {
	if i := strings.Index(url, "token="); i >= 0 {
		return url[i+len("token="):]
	}
	return ""
}
