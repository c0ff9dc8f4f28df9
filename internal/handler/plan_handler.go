package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visitation-api/internal/dto"
	"github.com/noah-isme/visitation-api/internal/service"
	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
	"github.com/noah-isme/visitation-api/pkg/response"
)

// PlanHandler exposes plan lifecycle and editing endpoints.
type PlanHandler struct {
	service *service.PlanService
}

// NewPlanHandler constructs handler.
func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{service: svc}
}

// Create godoc
// @Summary Create a visitation plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.CreatePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	plan, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Get godoc
// @Summary Fetch a plan snapshot
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// UpdateSchool godoc
// @Summary Rename the plan's school
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.UpdateSchoolRequest true "School payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{id}/school [put]
func (h *PlanHandler) UpdateSchool(c *gin.Context) {
	var req dto.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid school payload"))
		return
	}
	plan, err := h.service.SetSchoolName(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// SetPeriods godoc
// @Summary Replace the period table
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.SetPeriodsRequest true "Periods payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{id}/periods [put]
func (h *PlanHandler) SetPeriods(c *gin.Context) {
	var req dto.SetPeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid periods payload"))
		return
	}
	plan, err := h.service.SetPeriods(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// AddClass godoc
// @Summary Register a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.AddClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /plans/{id}/classes [post]
func (h *PlanHandler) AddClass(c *gin.Context) {
	var req dto.AddClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}
	plan, err := h.service.AddClass(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// BatchAddClasses godoc
// @Summary Register classes 1..N of a grade
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.BatchAddClassesRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plans/{id}/classes/batch [post]
func (h *PlanHandler) BatchAddClasses(c *gin.Context) {
	var req dto.BatchAddClassesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch payload"))
		return
	}
	plan, added, err := h.service.BatchAddClasses(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, plan, map[string]interface{}{"added": added})
}

// RemoveClass godoc
// @Summary Remove a class from the roster
// @Tags Classes
// @Produce json
// @Param id path string true "Plan ID"
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{id}/classes/{classId} [delete]
func (h *PlanHandler) RemoveClass(c *gin.Context) {
	plan, err := h.service.RemoveClass(c.Request.Context(), c.Param("id"), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// SetPatternCell godoc
// @Summary Assign classes to a weekday/period slot
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.PatternCellRequest true "Pattern payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plans/{id}/pattern [put]
func (h *PlanHandler) SetPatternCell(c *gin.Context) {
	var req dto.PatternCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pattern payload"))
		return
	}
	plan, err := h.service.SetPatternCell(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// SetHolidays godoc
// @Summary Replace the excluded date set
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.SetHolidaysRequest true "Holidays payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /plans/{id}/holidays [put]
func (h *PlanHandler) SetHolidays(c *gin.Context) {
	var req dto.SetHolidaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid holidays payload"))
		return
	}
	plan, err := h.service.SetHolidays(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// SetClassSetting godoc
// @Summary Upsert a class's start date and session quota
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param classId path string true "Class ID"
// @Param payload body dto.ClassSettingRequest true "Setting payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/{id}/classes/{classId}/setting [put]
func (h *PlanHandler) SetClassSetting(c *gin.Context) {
	var req dto.ClassSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid setting payload"))
		return
	}
	plan, err := h.service.SetClassSetting(c.Request.Context(), c.Param("id"), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}
