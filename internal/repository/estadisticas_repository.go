package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/psycoagenda/psycoagenda/internal/models"
)

// EstadisticasRepository computes the agenda aggregates in SQL. The client
// never recomputes any of this; it only renders what comes back.
type EstadisticasRepository struct {
	db *sqlx.DB
}

// NewEstadisticasRepository constructs an EstadisticasRepository.
func NewEstadisticasRepository(db *sqlx.DB) *EstadisticasRepository {
	return &EstadisticasRepository{db: db}
}

type estadisticasRow struct {
	TotalPacientes  int     `db:"total_pacientes"`
	TotalSesiones   int     `db:"total_sesiones"`
	Asistidas       int     `db:"asistidas"`
	Resueltas       int     `db:"resueltas"`
	Pagadas         int     `db:"pagadas"`
	Cobrables       int     `db:"cobrables"`
	MontoTotal      float64 `db:"monto_total"`
	PagosPendientes int     `db:"pagos_pendientes"`
}

// Snapshot aggregates the whole agenda in one query. Attendance rate counts
// attended sessions over resolved ones (pending and cancelled excluded);
// payment rate counts paid sessions over chargeable ones (no_aplica excluded).
func (r *EstadisticasRepository) Snapshot(ctx context.Context) (*models.Estadisticas, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM pacientes) AS total_pacientes,
        COUNT(*) AS total_sesiones,
        COUNT(*) FILTER (WHERE asistencia = 'asistio') AS asistidas,
        COUNT(*) FILTER (WHERE asistencia IN ('asistio', 'no_asistio')) AS resueltas,
        COUNT(*) FILTER (WHERE pago = 'pagado') AS pagadas,
        COUNT(*) FILTER (WHERE pago IN ('pagado', 'pendiente')) AS cobrables,
        COALESCE(SUM(monto) FILTER (WHERE pago = 'pagado'), 0) AS monto_total,
        COUNT(*) FILTER (WHERE pago = 'pendiente') AS pagos_pendientes
        FROM sesiones`

	var row estadisticasRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("estadisticas snapshot: %w", err)
	}

	return &models.Estadisticas{
		TotalPacientes:  row.TotalPacientes,
		TotalSesiones:   row.TotalSesiones,
		Asistencia:      formatRate(row.Asistidas, row.Resueltas),
		Pagos:           formatRate(row.Pagadas, row.Cobrables),
		MontoTotal:      row.MontoTotal,
		PagosPendientes: row.PagosPendientes,
	}, nil
}

func formatRate(part, whole int) string {
	if whole == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(part)/float64(whole)*100)
}
