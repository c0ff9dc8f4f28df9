package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/visitation-api/internal/dto"
	"github.com/noah-isme/visitation-api/internal/models"
	"github.com/noah-isme/visitation-api/internal/service"
	"github.com/noah-isme/visitation-api/pkg/response"
)

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodePlan(t *testing.T, w *httptest.ResponseRecorder) models.PlanState {
	t.Helper()
	var envelope struct {
		Data models.PlanState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func newPlanHandlerForTest(t *testing.T) (*PlanHandler, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewPlanService(nil, zap.NewNop())
	handler := NewPlanHandler(svc)

	payload, _ := json.Marshal(dto.CreatePlanRequest{SchoolName: "한빛초등학교"})
	c, w := newGinContext(http.MethodPost, "/plans", payload)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	return handler, decodePlan(t, w).ID
}

func TestPlanHandlerCreate(t *testing.T) {
	_, planID := newPlanHandlerForTest(t)
	require.NotEmpty(t, planID)
}

func TestPlanHandlerGet(t *testing.T) {
	handler, planID := newPlanHandlerForTest(t)

	c, w := newGinContext(http.MethodGet, "/plans/"+planID, nil)
	c.Params = gin.Params{{Key: "id", Value: planID}}
	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	plan := decodePlan(t, w)
	require.Equal(t, "한빛초등학교", plan.SchoolName)
	require.Len(t, plan.Periods, 6)
}

func TestPlanHandlerGetNotFound(t *testing.T) {
	handler, _ := newPlanHandlerForTest(t)

	c, w := newGinContext(http.MethodGet, "/plans/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	require.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestPlanHandlerAddClass(t *testing.T) {
	handler, planID := newPlanHandlerForTest(t)

	payload, _ := json.Marshal(dto.AddClassRequest{Grade: 1, ClassNumber: 1})
	c, w := newGinContext(http.MethodPost, "/plans/"+planID+"/classes", payload)
	c.Params = gin.Params{{Key: "id", Value: planID}}
	handler.AddClass(c)

	require.Equal(t, http.StatusCreated, w.Code)
	plan := decodePlan(t, w)
	require.Len(t, plan.Classes, 1)
	require.Equal(t, "1-1", plan.Classes[0].Name)
}

func TestPlanHandlerAddClassDuplicate(t *testing.T) {
	handler, planID := newPlanHandlerForTest(t)

	payload, _ := json.Marshal(dto.AddClassRequest{Grade: 1, ClassNumber: 1})
	c, _ := newGinContext(http.MethodPost, "/plans/"+planID+"/classes", payload)
	c.Params = gin.Params{{Key: "id", Value: planID}}
	handler.AddClass(c)

	c, w := newGinContext(http.MethodPost, "/plans/"+planID+"/classes", payload)
	c.Params = gin.Params{{Key: "id", Value: planID}}
	handler.AddClass(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestPlanHandlerSetPeriodsRejectsMalformedBody(t *testing.T) {
	handler, planID := newPlanHandlerForTest(t)

	c, w := newGinContext(http.MethodPut, "/plans/"+planID+"/periods", []byte("{not json"))
	c.Params = gin.Params{{Key: "id", Value: planID}}
	handler.SetPeriods(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandlerSetHolidays(t *testing.T) {
	handler, planID := newPlanHandlerForTest(t)

	payload, _ := json.Marshal(dto.SetHolidaysRequest{Holidays: []string{"2024-05-05"}})
	c, w := newGinContext(http.MethodPut, "/plans/"+planID+"/holidays", payload)
	c.Params = gin.Params{{Key: "id", Value: planID}}
	handler.SetHolidays(c)

	require.Equal(t, http.StatusOK, w.Code)
	plan := decodePlan(t, w)
	require.Equal(t, []string{"2024-05-05"}, plan.Holidays)
}
