package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/visitation-api/internal/models"
	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
)

func TestExportJobRepositoryCreateAssignsID(t *testing.T) {
	repo := NewExportJobRepository()

	job := &models.ExportJob{PlanID: "plan-1", Format: models.ExportFormatCSV, Status: models.ExportStatusQueued}
	require.NoError(t, repo.Create(context.Background(), job))

	assert.NotEmpty(t, job.ID)
	assert.False(t, job.CreatedAt.IsZero())

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "plan-1", stored.PlanID)
}

func TestExportJobRepositoryGetUnknown(t *testing.T) {
	repo := NewExportJobRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestExportJobRepositoryPartialUpdate(t *testing.T) {
	repo := NewExportJobRepository()
	job := &models.ExportJob{PlanID: "plan-1", Format: models.ExportFormatPDF, Status: models.ExportStatusQueued}
	require.NoError(t, repo.Create(context.Background(), job))

	status := models.ExportStatusProcessing
	progress := 50
	require.NoError(t, repo.Update(context.Background(), job.ID, UpdateExportJobParams{
		Status:   &status,
		Progress: &progress,
	}))

	stored, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusProcessing, stored.Status)
	assert.Equal(t, 50, stored.Progress)
	assert.Nil(t, stored.ResultURL)
}

func TestExportJobRepositoryListFinishedBefore(t *testing.T) {
	repo := NewExportJobRepository()
	now := time.Now().UTC()

	old := now.Add(-48 * time.Hour)
	recent := now.Add(-time.Minute)

	mk := func(finishedAt *time.Time, status models.ExportStatus) string {
		job := &models.ExportJob{PlanID: "plan-1", Format: models.ExportFormatCSV, Status: status, FinishedAt: finishedAt}
		require.NoError(t, repo.Create(context.Background(), job))
		return job.ID
	}

	oldID := mk(&old, models.ExportStatusFinished)
	mk(&recent, models.ExportStatusFinished)
	mk(&old, models.ExportStatusFailed)
	mk(nil, models.ExportStatusQueued)

	expired, err := repo.ListFinishedBefore(context.Background(), now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, oldID, expired[0].ID)
}

func TestExportJobRepositoryDelete(t *testing.T) {
	repo := NewExportJobRepository()
	job := &models.ExportJob{PlanID: "plan-1", Format: models.ExportFormatCSV, Status: models.ExportStatusQueued}
	require.NoError(t, repo.Create(context.Background(), job))

	require.NoError(t, repo.Delete(context.Background(), job.ID))
	_, err := repo.GetByID(context.Background(), job.ID)
	require.Error(t, err)
}
