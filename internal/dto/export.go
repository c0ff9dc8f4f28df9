package dto

import "github.com/noah-isme/visitation-api/internal/models"

// CreateExportRequest enqueues an asynchronous timetable export.
type CreateExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse acknowledges an accepted export job.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse reports job progress and, once finished, the signed
// download URL.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
