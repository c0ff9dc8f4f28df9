package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visitation-api/internal/models"
	"github.com/noah-isme/visitation-api/pkg/response"
)

type timelinePreviewer interface {
	Preview(ctx context.Context, planID string) (*models.TimelineResult, error)
}

// TimelineHandler exposes the derived schedule endpoint.
type TimelineHandler struct {
	service timelinePreviewer
}

// NewTimelineHandler constructs handler.
func NewTimelineHandler(svc timelinePreviewer) *TimelineHandler {
	return &TimelineHandler{service: svc}
}

// Preview godoc
// @Summary Expand the plan into its dated session timeline
// @Description Recomputes (or serves the memoized) session list for the plan's current version, including truncation warnings for classes whose quota could not be met
// @Tags Timeline
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{id}/timeline [get]
func (h *TimelineHandler) Preview(c *gin.Context) {
	result, err := h.service.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
