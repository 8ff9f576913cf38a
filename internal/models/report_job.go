package models

import "time"

// Report output formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

// Report job states.
const (
	ReportStatusPending    = "pendiente"
	ReportStatusProcessing = "procesando"
	ReportStatusDone       = "completado"
	ReportStatusFailed     = "fallido"
)

// ReportJob tracks one queued agenda export.
type ReportJob struct {
	ID          string     `json:"id"`
	Format      string     `json:"formato"`
	Status      string     `json:"estado"`
	FilePath    string     `json:"-"`
	Error       string     `json:"error,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
