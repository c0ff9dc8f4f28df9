package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/visitation-api/internal/dto"
	"github.com/noah-isme/visitation-api/internal/models"
	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
)

func newPlanServiceForTest(t *testing.T) (*PlanService, string) {
	t.Helper()
	svc := NewPlanService(nil, zap.NewNop())
	plan, err := svc.Create(context.Background(), dto.CreatePlanRequest{SchoolName: "한빛초등학교"})
	require.NoError(t, err)
	return svc, plan.ID
}

func TestPlanServiceCreateDefaults(t *testing.T) {
	svc := NewPlanService(nil, zap.NewNop())

	plan, err := svc.Create(context.Background(), dto.CreatePlanRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, int64(1), plan.Version)
	require.Len(t, plan.Periods, 6)
	assert.Equal(t, 1, plan.Periods[0].Number)
	assert.Equal(t, "09:00", plan.Periods[0].Start)
	assert.Empty(t, plan.Classes)
	for _, day := range models.PatternWeekdays {
		assert.Contains(t, plan.Pattern, day)
	}
}

func TestPlanServiceSetSchoolNameBumpsVersion(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	plan, err := svc.SetSchoolName(context.Background(), planID, dto.UpdateSchoolRequest{SchoolName: "새빛초등학교"})
	require.NoError(t, err)

	assert.Equal(t, "새빛초등학교", plan.SchoolName)
	assert.Equal(t, int64(2), plan.Version)
}

func TestPlanServiceSetPeriodsRenumbers(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	plan, err := svc.SetPeriods(context.Background(), planID, dto.SetPeriodsRequest{
		Periods: []dto.PeriodInput{
			{Period: 3, Start: "08:30", End: "09:10"},
			{Period: 7, Start: "09:20", End: "10:00"},
		},
	})
	require.NoError(t, err)

	require.Len(t, plan.Periods, 2)
	assert.Equal(t, 1, plan.Periods[0].Number)
	assert.Equal(t, 2, plan.Periods[1].Number)
	assert.Equal(t, "09:20", plan.Periods[1].Start)
}

func TestPlanServiceSetPeriodsRejectsInvertedTimes(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	_, err := svc.SetPeriods(context.Background(), planID, dto.SetPeriodsRequest{
		Periods: []dto.PeriodInput{{Period: 1, Start: "10:00", End: "09:00"}},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPlanServiceAddClass(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	plan, err := svc.AddClass(context.Background(), planID, dto.AddClassRequest{Grade: 1, ClassNumber: 1})
	require.NoError(t, err)

	require.Len(t, plan.Classes, 1)
	assert.Equal(t, "1-1", plan.Classes[0].Name)
	assert.Equal(t, models.ClassPalette[0], plan.Classes[0].Color)
	assert.NotEmpty(t, plan.Classes[0].ID)
}

func TestPlanServiceAddClassDuplicateName(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	_, err := svc.AddClass(context.Background(), planID, dto.AddClassRequest{Grade: 1, ClassNumber: 1})
	require.NoError(t, err)

	_, err = svc.AddClass(context.Background(), planID, dto.AddClassRequest{Grade: 1, ClassNumber: 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateClass.Code, appErr.Code)
}

func TestPlanServiceBatchAddSkipsExisting(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	_, err := svc.AddClass(context.Background(), planID, dto.AddClassRequest{Grade: 2, ClassNumber: 2})
	require.NoError(t, err)

	plan, added, err := svc.BatchAddClasses(context.Background(), planID, dto.BatchAddClassesRequest{Grade: 2, UpTo: 4})
	require.NoError(t, err)

	assert.Equal(t, 3, added)
	require.Len(t, plan.Classes, 4)
	names := make([]string, 0, len(plan.Classes))
	for _, cls := range plan.Classes {
		names = append(names, cls.Name)
	}
	assert.ElementsMatch(t, []string{"2-1", "2-2", "2-3", "2-4"}, names)

	// Colours follow roster position regardless of how classes arrived.
	for i, cls := range plan.Classes {
		assert.Equal(t, models.ClassPalette[i], cls.Color, "class %s", cls.Name)
	}
}

func TestPlanServiceBatchAddAssignsContiguousPalette(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	plan, added, err := svc.BatchAddClasses(context.Background(), planID, dto.BatchAddClassesRequest{Grade: 1, UpTo: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, added)
	require.Len(t, plan.Classes, 3)
	for i, cls := range plan.Classes {
		assert.Equal(t, fmt.Sprintf("1-%d", i+1), cls.Name)
		assert.Equal(t, models.ClassPalette[i], cls.Color, "class %s", cls.Name)
	}
}

func TestPlanServiceRemoveClassLeavesDanglingRefs(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	plan, err := svc.AddClass(context.Background(), planID, dto.AddClassRequest{Grade: 1, ClassNumber: 1})
	require.NoError(t, err)
	classID := plan.Classes[0].ID

	_, err = svc.SetPatternCell(context.Background(), planID, dto.PatternCellRequest{Day: "월", Period: 1, ClassIDs: []string{classID}})
	require.NoError(t, err)

	plan, err = svc.RemoveClass(context.Background(), planID, classID)
	require.NoError(t, err)

	assert.Empty(t, plan.Classes)
	// The pattern still references the removed id; expansion filters it out.
	assert.Equal(t, []string{classID}, plan.Pattern["월"][1])

	items, _ := ExpandTimeline(plan.Classes, plan.Settings, plan.Pattern, plan.Holidays, plan.Periods)
	assert.Empty(t, items)
}

func TestPlanServiceRemoveClassNotFound(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	_, err := svc.RemoveClass(context.Background(), planID, "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPlanServiceSetPatternCellClearsEmptySlot(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	_, err := svc.SetPatternCell(context.Background(), planID, dto.PatternCellRequest{Day: "화", Period: 2, ClassIDs: []string{"c1"}})
	require.NoError(t, err)

	plan, err := svc.SetPatternCell(context.Background(), planID, dto.PatternCellRequest{Day: "화", Period: 2, ClassIDs: nil})
	require.NoError(t, err)

	_, exists := plan.Pattern["화"][2]
	assert.False(t, exists)
}

func TestPlanServiceSetPatternCellRejectsWeekend(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	_, err := svc.SetPatternCell(context.Background(), planID, dto.PatternCellRequest{Day: "토", Period: 1, ClassIDs: []string{"c1"}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPlanServiceSetHolidaysSorted(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	plan, err := svc.SetHolidays(context.Background(), planID, dto.SetHolidaysRequest{
		Holidays: []string{"2024-05-05", "2024-03-01"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-03-01", "2024-05-05"}, plan.Holidays)
}

func TestPlanServiceSetClassSettingRequiresClass(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	_, err := svc.SetClassSetting(context.Background(), planID, "missing", dto.ClassSettingRequest{StartDate: "2024-03-04", TotalSessions: 4})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPlanServiceSnapshotUnaffectedByLaterEdits(t *testing.T) {
	svc, planID := newPlanServiceForTest(t)

	_, err := svc.AddClass(context.Background(), planID, dto.AddClassRequest{Grade: 1, ClassNumber: 1})
	require.NoError(t, err)

	before, err := svc.Snapshot(context.Background(), planID)
	require.NoError(t, err)

	_, err = svc.AddClass(context.Background(), planID, dto.AddClassRequest{Grade: 1, ClassNumber: 2})
	require.NoError(t, err)

	assert.Len(t, before.Classes, 1)
	assert.Equal(t, int64(2), before.Version)

	after, err := svc.Snapshot(context.Background(), planID)
	require.NoError(t, err)
	assert.Len(t, after.Classes, 2)
	assert.Equal(t, int64(3), after.Version)
}

func TestPlanServiceSnapshotUnknownPlan(t *testing.T) {
	svc := NewPlanService(nil, zap.NewNop())

	_, err := svc.Snapshot(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
