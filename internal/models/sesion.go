package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Asistencia is the attendance state of a session. Older dashboard builds sent
// a bare boolean ("asistio"); newer ones send the enum. Both decode into the
// canonical enum here so the rest of the system sees one schema.
type Asistencia string

const (
	AsistenciaPendiente Asistencia = "pendiente"
	AsistenciaAsistio   Asistencia = "asistio"
	AsistenciaNoAsistio Asistencia = "no_asistio"
	AsistenciaCancelada Asistencia = "cancelada"
)

// UnmarshalJSON accepts the enum string or the legacy boolean form.
func (a *Asistencia) UnmarshalJSON(b []byte) error {
	var asBool bool
	if err := json.Unmarshal(b, &asBool); err == nil {
		if asBool {
			*a = AsistenciaAsistio
		} else {
			*a = AsistenciaPendiente
		}
		return nil
	}
	var asString string
	if err := json.Unmarshal(b, &asString); err != nil {
		return fmt.Errorf("asistencia must be a string or boolean")
	}
	switch Asistencia(asString) {
	case AsistenciaPendiente, AsistenciaAsistio, AsistenciaNoAsistio, AsistenciaCancelada:
		*a = Asistencia(asString)
	case "":
		*a = AsistenciaPendiente
	default:
		return fmt.Errorf("asistencia inválida: %q", asString)
	}
	return nil
}

// Valid reports whether a holds one of the canonical states.
func (a Asistencia) Valid() bool {
	switch a {
	case AsistenciaPendiente, AsistenciaAsistio, AsistenciaNoAsistio, AsistenciaCancelada:
		return true
	}
	return false
}

// Pago is the payment state of a session. Like Asistencia it tolerates the
// legacy boolean wire form ("pago" / "pago_realizado").
type Pago string

const (
	PagoPendiente Pago = "pendiente"
	PagoPagado    Pago = "pagado"
	PagoNoAplica  Pago = "no_aplica"
)

// UnmarshalJSON accepts the enum string or the legacy boolean form.
func (p *Pago) UnmarshalJSON(b []byte) error {
	var asBool bool
	if err := json.Unmarshal(b, &asBool); err == nil {
		if asBool {
			*p = PagoPagado
		} else {
			*p = PagoPendiente
		}
		return nil
	}
	var asString string
	if err := json.Unmarshal(b, &asString); err != nil {
		return fmt.Errorf("pago must be a string or boolean")
	}
	switch Pago(asString) {
	case PagoPendiente, PagoPagado, PagoNoAplica:
		*p = Pago(asString)
	case "":
		*p = PagoPendiente
	default:
		return fmt.Errorf("pago inválido: %q", asString)
	}
	return nil
}

// Valid reports whether p holds one of the canonical states.
func (p Pago) Valid() bool {
	switch p {
	case PagoPendiente, PagoPagado, PagoNoAplica:
		return true
	}
	return false
}

// Sesion is a scheduled or completed appointment with a patient. Fecha stays
// a string on the wire because the dashboard versions disagree on its shape
// (date vs combined datetime); the backend stores it verbatim.
type Sesion struct {
	ID         int64      `db:"id" json:"id"`
	PacienteID int64      `db:"paciente_id" json:"paciente_id"`
	Fecha      string     `db:"fecha" json:"fecha"`
	Asistencia Asistencia `db:"asistencia" json:"asistencia"`
	Pago       Pago       `db:"pago" json:"pago"`
	Monto      *float64   `db:"monto" json:"monto,omitempty"`
	Notas      string     `db:"notas" json:"notas,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`

	// Legacy mirrors kept on the wire for older dashboard builds. Derived,
	// never stored.
	Asistio       bool `db:"-" json:"asistio"`
	PagoRealizado bool `db:"-" json:"pago_realizado"`
}

// SyncLegacy refreshes the derived boolean mirrors from the canonical enums.
func (s *Sesion) SyncLegacy() {
	s.Asistio = s.Asistencia == AsistenciaAsistio
	s.PagoRealizado = s.Pago == PagoPagado
}

// UnmarshalJSON decodes a session from any backend version. The oldest
// backends send only the boolean keys; when the canonical enums are absent
// they are derived from the booleans, then the mirrors are resynced.
func (s *Sesion) UnmarshalJSON(b []byte) error {
	type sesionAlias Sesion
	var aux sesionAlias
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = Sesion(aux)
	if s.Asistencia == "" {
		if s.Asistio {
			s.Asistencia = AsistenciaAsistio
		} else {
			s.Asistencia = AsistenciaPendiente
		}
	}
	if s.Pago == "" {
		if s.PagoRealizado {
			s.Pago = PagoPagado
		} else {
			s.Pago = PagoPendiente
		}
	}
	s.SyncLegacy()
	return nil
}

// SesionInput is the union of every create/update payload the dashboard
// versions send: canonical enums, legacy booleans, and the old
// "historia_clinica" notes key. Nil fields were absent from the payload.
type SesionInput struct {
	PacienteID      *int64      `json:"paciente_id,omitempty"`
	Fecha           *string     `json:"fecha,omitempty"`
	Asistencia      *Asistencia `json:"asistencia,omitempty"`
	Asistio         *Asistencia `json:"asistio,omitempty"`
	Pago            *Pago       `json:"pago,omitempty"`
	PagoRealizado   *Pago       `json:"pago_realizado,omitempty"`
	Monto           *float64    `json:"monto,omitempty"`
	Notas           *string     `json:"notas,omitempty"`
	HistoriaClinica *string     `json:"historia_clinica,omitempty"`
}

// ResolveAsistencia picks the canonical field over the legacy one.
func (in SesionInput) ResolveAsistencia() *Asistencia {
	if in.Asistencia != nil {
		return in.Asistencia
	}
	return in.Asistio
}

// ResolvePago picks the canonical field over the legacy one.
func (in SesionInput) ResolvePago() *Pago {
	if in.Pago != nil {
		return in.Pago
	}
	return in.PagoRealizado
}

// ResolveNotas picks the canonical field over the legacy one.
func (in SesionInput) ResolveNotas() *string {
	if in.Notas != nil {
		return in.Notas
	}
	return in.HistoriaClinica
}
