package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/visitation-api/internal/models"
	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
)

// UpdateExportJobParams carries partial updates for an export job. Nil fields
// are left untouched.
type UpdateExportJobParams struct {
	Status       *models.ExportStatus
	Progress     *int
	ResultURL    *string
	ErrorMessage *string
	ExpiresAt    *time.Time
	FinishedAt   *time.Time
}

// ExportJobRepository keeps export jobs in process memory. Jobs are transient
// bookkeeping around files on disk, so losing them on restart only orphans
// files the cleanup loop already removes by age.
type ExportJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.ExportJob
}

// NewExportJobRepository constructs an empty registry.
func NewExportJobRepository() *ExportJobRepository {
	return &ExportJobRepository{jobs: make(map[string]models.ExportJob)}
}

// Create stores the job, assigning an id when absent.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	r.jobs[job.ID] = *job
	return nil
}

// GetByID returns a copy of the stored job.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &job, nil
}

// Update applies the provided partial update.
func (r *ExportJobRepository) Update(ctx context.Context, id string, params UpdateExportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.ExpiresAt != nil {
		job.ExpiresAt = params.ExpiresAt
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	r.jobs[id] = job
	return nil
}

// ListFinishedBefore returns finished jobs whose completion predates cutoff,
// oldest first, capped at limit.
func (r *ExportJobRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.ExportJob
	for _, job := range r.jobs {
		if job.Status != models.ExportStatusFinished || job.FinishedAt == nil {
			continue
		}
		if job.FinishedAt.Before(cutoff) {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.Before(*out[j].FinishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a job record.
func (r *ExportJobRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}
