package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/visitation-api/internal/dto"
	"github.com/noah-isme/visitation-api/internal/models"
	appErrors "github.com/noah-isme/visitation-api/pkg/errors"
)

// PlanService owns the in-memory plan registry. Every edit runs a pure
// reducer over the current snapshot and swaps the result in under the store
// lock, so readers always observe a complete, versioned state. Plans are
// never persisted; the registry is the whole storage story.
type PlanService struct {
	store     *planStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlanService constructs the service.
func NewPlanService(validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		store:     newPlanStore(),
		validator: validate,
		logger:    logger,
	}
}

// Create registers a fresh plan with the default six-period timetable.
func (s *PlanService) Create(ctx context.Context, req dto.CreatePlanRequest) (*models.PlanState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}

	now := time.Now().UTC()
	plan := models.PlanState{
		ID:         uuid.NewString(),
		SchoolName: req.SchoolName,
		Periods:    models.DefaultPeriods(),
		Classes:    []models.ClassInfo{},
		Pattern:    models.EmptyPattern(),
		Holidays:   []string{},
		Settings:   map[string]models.ClassSetting{},
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.store.Save(plan)
	s.logger.Info("plan created", zap.String("plan_id", plan.ID))
	return &plan, nil
}

// Snapshot returns the current immutable state of a plan.
func (s *PlanService) Snapshot(ctx context.Context, planID string) (models.PlanState, error) {
	plan, ok := s.store.Get(planID)
	if !ok {
		return models.PlanState{}, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
	}
	return plan, nil
}

// SetSchoolName renames the plan's school.
func (s *PlanService) SetSchoolName(ctx context.Context, planID string, req dto.UpdateSchoolRequest) (*models.PlanState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}
	return s.apply(planID, func(state models.PlanState) (models.PlanState, error) {
		return reduceSchoolName(state, req.SchoolName), nil
	})
}

// SetPeriods replaces the period table. Rows keep their submitted order and
// are renumbered into a contiguous 1..N sequence, so removing a period never
// leaves a gap.
func (s *PlanService) SetPeriods(ctx context.Context, planID string, req dto.SetPeriodsRequest) (*models.PlanState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid periods payload")
	}
	periods := make([]models.Period, 0, len(req.Periods))
	for i, row := range req.Periods {
		if row.Start >= row.End {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d must start before it ends", i+1))
		}
		periods = append(periods, models.Period{Number: i + 1, Start: row.Start, End: row.End})
	}
	return s.apply(planID, func(state models.PlanState) (models.PlanState, error) {
		return reducePeriods(state, periods), nil
	})
}

// AddClass registers one class named "<grade>-<classNumber>". Display colour
// comes from the preset palette cycled by roster position.
func (s *PlanService) AddClass(ctx context.Context, planID string, req dto.AddClassRequest) (*models.PlanState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	name := fmt.Sprintf("%d-%d", req.Grade, req.ClassNumber)
	return s.apply(planID, func(state models.PlanState) (models.PlanState, error) {
		if state.HasClassName(name) {
			return models.PlanState{}, appErrors.Clone(appErrors.ErrDuplicateClass, fmt.Sprintf("class %s already registered", name))
		}
		return reduceClassAdded(state, newClass(state, name)), nil
	})
}

// BatchAddClasses registers "<grade>-1" .. "<grade>-<upTo>", skipping names
// that already exist. The returned count reports how many were added.
func (s *PlanService) BatchAddClasses(ctx context.Context, planID string, req dto.BatchAddClassesRequest) (*models.PlanState, int, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	added := 0
	plan, err := s.apply(planID, func(state models.PlanState) (models.PlanState, error) {
		next := state
		for i := 1; i <= req.UpTo; i++ {
			name := fmt.Sprintf("%d-%d", req.Grade, i)
			if next.HasClassName(name) {
				continue
			}
			next = reduceClassAdded(next, newClass(next, name))
			added++
		}
		return next, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return plan, added, nil
}

// RemoveClass drops a class from the roster. Pattern cells and settings that
// still reference the id become dangling and are filtered out downstream.
func (s *PlanService) RemoveClass(ctx context.Context, planID, classID string) (*models.PlanState, error) {
	return s.apply(planID, func(state models.PlanState) (models.PlanState, error) {
		found := false
		for _, cls := range state.Classes {
			if cls.ID == classID {
				found = true
				break
			}
		}
		if !found {
			return models.PlanState{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return reduceClassRemoved(state, classID), nil
	})
}

// SetPatternCell assigns class ids to one weekday/period slot.
func (s *PlanService) SetPatternCell(ctx context.Context, planID string, req dto.PatternCellRequest) (*models.PlanState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pattern payload")
	}
	if !isPatternWeekday(req.Day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day %q is not an editable weekday", req.Day))
	}
	return s.apply(planID, func(state models.PlanState) (models.PlanState, error) {
		return reducePatternCell(state, req.Day, req.Period, req.ClassIDs), nil
	})
}

// SetHolidays replaces the excluded date set.
func (s *PlanService) SetHolidays(ctx context.Context, planID string, req dto.SetHolidaysRequest) (*models.PlanState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holidays payload")
	}
	holidays := append([]string(nil), req.Holidays...)
	sort.Strings(holidays)
	return s.apply(planID, func(state models.PlanState) (models.PlanState, error) {
		return reduceHolidays(state, holidays), nil
	})
}

// SetClassSetting upserts a class's start date and session quota.
func (s *PlanService) SetClassSetting(ctx context.Context, planID, classID string, req dto.ClassSettingRequest) (*models.PlanState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid setting payload")
	}
	return s.apply(planID, func(state models.PlanState) (models.PlanState, error) {
		found := false
		for _, cls := range state.Classes {
			if cls.ID == classID {
				found = true
				break
			}
		}
		if !found {
			return models.PlanState{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		setting := models.ClassSetting{StartDate: req.StartDate, TotalSessions: req.TotalSessions}
		return reduceClassSetting(state, classID, setting), nil
	})
}

func (s *PlanService) apply(planID string, reduce func(models.PlanState) (models.PlanState, error)) (*models.PlanState, error) {
	next, err := s.store.Update(planID, reduce)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// newClass colours the class by its roster position. During a batch add the
// snapshot passed in already holds the previously appended classes, so the
// roster length alone keeps the palette sequence contiguous.
func newClass(state models.PlanState, name string) models.ClassInfo {
	color := models.ClassPalette[len(state.Classes)%len(models.ClassPalette)]
	return models.ClassInfo{ID: uuid.NewString(), Name: name, Color: color}
}

func isPatternWeekday(day string) bool {
	for _, label := range models.PatternWeekdays {
		if label == day {
			return true
		}
	}
	return false
}

// --- Reducers ---
//
// Each reducer clones the source snapshot, applies one edit and stamps the
// next version. They contain no I/O and no clock reads beyond the version
// stamp applied by bump.

func reduceSchoolName(state models.PlanState, name string) models.PlanState {
	next := state.Clone()
	next.SchoolName = name
	return bump(next)
}

func reducePeriods(state models.PlanState, periods []models.Period) models.PlanState {
	next := state.Clone()
	next.Periods = periods
	return bump(next)
}

func reduceClassAdded(state models.PlanState, cls models.ClassInfo) models.PlanState {
	next := state.Clone()
	next.Classes = append(next.Classes, cls)
	return bump(next)
}

func reduceClassRemoved(state models.PlanState, classID string) models.PlanState {
	next := state.Clone()
	kept := next.Classes[:0]
	for _, cls := range next.Classes {
		if cls.ID != classID {
			kept = append(kept, cls)
		}
	}
	next.Classes = kept
	return bump(next)
}

func reducePatternCell(state models.PlanState, day string, period int, classIDs []string) models.PlanState {
	next := state.Clone()
	if next.Pattern[day] == nil {
		next.Pattern[day] = make(map[int][]string)
	}
	if len(classIDs) == 0 {
		delete(next.Pattern[day], period)
	} else {
		next.Pattern[day][period] = append([]string(nil), classIDs...)
	}
	return bump(next)
}

func reduceHolidays(state models.PlanState, holidays []string) models.PlanState {
	next := state.Clone()
	next.Holidays = holidays
	return bump(next)
}

func reduceClassSetting(state models.PlanState, classID string, setting models.ClassSetting) models.PlanState {
	next := state.Clone()
	next.Settings[classID] = setting
	return bump(next)
}

func bump(state models.PlanState) models.PlanState {
	state.Version++
	state.UpdatedAt = time.Now().UTC()
	return state
}

// --- Plan registry ---

type planStore struct {
	mu    sync.RWMutex
	items map[string]models.PlanState
}

func newPlanStore() *planStore {
	return &planStore{items: make(map[string]models.PlanState)}
}

func (s *planStore) Save(plan models.PlanState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[plan.ID] = plan
}

func (s *planStore) Get(id string) (models.PlanState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.items[id]
	return plan, ok
}

// Update applies the reducer atomically: readers see either the previous or
// the next snapshot, never an intermediate.
func (s *planStore) Update(id string, reduce func(models.PlanState) (models.PlanState, error)) (*models.PlanState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
	}
	next, err := reduce(current)
	if err != nil {
		return nil, err
	}
	s.items[id] = next
	return &next, nil
}
