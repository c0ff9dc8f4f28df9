package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/visitation-api/internal/models"
	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
)

type timelineMock struct {
	result *models.TimelineResult
	err    error
}

func (m *timelineMock) Preview(ctx context.Context, planID string) (*models.TimelineResult, error) {
	return m.result, m.err
}

func TestTimelineHandlerPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timelineMock{
		result: &models.TimelineResult{
			PlanID:      "plan-1",
			PlanVersion: 4,
			Items: []models.ScheduleItem{
				{Date: "2024-03-04", DayOfWeek: "월", Period: 1, ClassName: "1-1", SessionNumber: 1},
			},
			Warnings: []models.TruncationWarning{
				{ClassID: "c2", ClassName: "1-2", RequestedSessions: 9, ScheduledSessions: 3},
			},
			GeneratedAt: time.Now().UTC(),
		},
	}
	handler := NewTimelineHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/plans/plan-1/timeline", nil)
	c.Params = gin.Params{{Key: "id", Value: "plan-1"}}

	handler.Preview(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.TimelineResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "plan-1", envelope.Data.PlanID)
	require.Len(t, envelope.Data.Items, 1)
	require.Len(t, envelope.Data.Warnings, 1)
}

func TestTimelineHandlerPreviewNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimelineHandler(&timelineMock{err: appErrors.ErrNotFound})

	c, w := newGinContext(http.MethodGet, "/plans/missing/timeline", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Preview(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
