package models

import "time"

// Paciente represents a person receiving care, tracked by the agenda.
// Identifiers are assigned by the backend; clients never generate one.
type Paciente struct {
	ID        int64     `db:"id" json:"id"`
	Nombre    string    `db:"nombre" json:"nombre"`
	Email     string    `db:"email" json:"email,omitempty"`
	Telefono  string    `db:"telefono" json:"telefono,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
