package models

// Estadisticas is the aggregate snapshot the backend computes over the whole
// agenda. The client never derives any of these values; it renders them as
// received.
type Estadisticas struct {
	TotalPacientes  int     `db:"total_pacientes" json:"total_pacientes"`
	TotalSesiones   int     `db:"total_sesiones" json:"total_sesiones"`
	Asistencia      string  `json:"asistencia"`
	Pagos           string  `json:"pagos"`
	MontoTotal      float64 `db:"monto_total" json:"monto_total"`
	PagosPendientes int     `db:"pagos_pendientes" json:"pagos_pendientes"`
}
