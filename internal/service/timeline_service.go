package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/visitation-api/internal/models"
)

// maxLookaheadDays bounds the per-class calendar walk. A class whose weekly
// pattern never matches (or whose holidays swallow every candidate day)
// would otherwise walk forever; one year of day-steps is an engineering
// guard, not a business rule. Hitting it truncates that class's output
// below its quota, which Preview surfaces as a warning.
const maxLookaheadDays = 365

const dateLayout = "2006-01-02"

// ExpandTimeline turns a weekly recurrence pattern into the dated session
// list. Each class is walked independently: a calendar cursor starts at the
// class's start date and advances one day at a time, skipping holiday dates
// outright, emitting one item per assigned period (ascending) on matching
// weekdays until the session quota is met or the lookahead ceiling is hit.
//
// The function is pure: identical inputs always produce identical output and
// nothing reads the clock. Malformed per-class input (missing setting,
// unparseable start date, dangling class ids, unknown period numbers)
// degrades to zero or partial sessions for that class, never an error.
func ExpandTimeline(
	classes []models.ClassInfo,
	settings map[string]models.ClassSetting,
	pattern models.WeeklyPattern,
	holidays []string,
	periods []models.Period,
) ([]models.ScheduleItem, []models.TruncationWarning) {
	holidaySet := make(map[string]struct{}, len(holidays))
	for _, date := range holidays {
		holidaySet[date] = struct{}{}
	}

	periodTimes := make(map[int]models.Period, len(periods))
	for _, p := range periods {
		periodTimes[p.Number] = p
	}

	items := make([]models.ScheduleItem, 0)
	var warnings []models.TruncationWarning

	for _, cls := range classes {
		setting, ok := settings[cls.ID]
		if !ok || setting.StartDate == "" {
			continue
		}
		cursor, err := time.ParseInLocation(dateLayout, setting.StartDate, time.UTC)
		if err != nil {
			continue
		}

		scheduled := 0
		for steps := 0; scheduled < setting.TotalSessions && steps < maxLookaheadDays; steps++ {
			dateStr := cursor.Format(dateLayout)

			// Holidays exclude the whole day for every period.
			if _, holiday := holidaySet[dateStr]; holiday {
				cursor = cursor.AddDate(0, 0, 1)
				continue
			}

			label := models.WeekdayLabels[int(cursor.Weekday())]
			if slots, ok := pattern[label]; ok {
				for _, period := range periodsForClass(slots, cls.ID) {
					if scheduled >= setting.TotalSessions {
						break
					}
					scheduled++
					item := models.ScheduleItem{
						Date:          dateStr,
						DayOfWeek:     label,
						Period:        period,
						ClassName:     cls.Name,
						ClassColor:    cls.Color,
						SessionNumber: scheduled,
					}
					if times, known := periodTimes[period]; known {
						item.StartTime = times.Start
						item.EndTime = times.End
					}
					items = append(items, item)
				}
			}

			cursor = cursor.AddDate(0, 0, 1)
		}

		if scheduled < setting.TotalSessions {
			warnings = append(warnings, models.TruncationWarning{
				ClassID:           cls.ID,
				ClassName:         cls.Name,
				RequestedSessions: setting.TotalSessions,
				ScheduledSessions: scheduled,
			})
		}
	}

	// Date ascends lexicographically (ISO dates keep that chronological),
	// then period; ties keep roster emission order.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Period < items[j].Period
	})

	return items, warnings
}

func periodsForClass(slots map[int][]string, classID string) []int {
	var result []int
	for period, ids := range slots {
		for _, id := range ids {
			if id == classID {
				result = append(result, period)
				break
			}
		}
	}
	sort.Ints(result)
	return result
}

type planSnapshotProvider interface {
	Snapshot(ctx context.Context, planID string) (models.PlanState, error)
}

// TimelineService wraps the pure expansion with plan resolution, optional
// memoization on the (plan, version) tuple and observability.
type TimelineService struct {
	plans    planSnapshotProvider
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewTimelineService constructs the service.
func NewTimelineService(plans planSnapshotProvider, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *TimelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &TimelineService{plans: plans, cache: cache, metrics: metrics, logger: logger, cacheTTL: cacheTTL}
}

// Preview expands the plan's current state into its timeline. Results are
// memoized per plan version when caching is enabled; correctness never
// depends on the cache because expansion is deterministic.
func (s *TimelineService) Preview(ctx context.Context, planID string) (*models.TimelineResult, error) {
	plan, err := s.plans.Snapshot(ctx, planID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("timeline:%s:v%d", plan.ID, plan.Version)
	if s.cache != nil {
		var cached models.TimelineResult
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	start := time.Now()
	items, warnings := ExpandTimeline(plan.Classes, plan.Settings, plan.Pattern, plan.Holidays, plan.Periods)
	if s.metrics != nil {
		s.metrics.ObserveExpansion(time.Since(start), len(warnings))
	}
	for _, warning := range warnings {
		s.logger.Warn("timeline truncated below session quota",
			zap.String("plan_id", plan.ID),
			zap.String("class", warning.ClassName),
			zap.Int("requested", warning.RequestedSessions),
			zap.Int("scheduled", warning.ScheduledSessions),
		)
	}

	result := &models.TimelineResult{
		PlanID:      plan.ID,
		PlanVersion: plan.Version,
		Items:       items,
		Warnings:    warnings,
		GeneratedAt: time.Now().UTC(),
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, result, s.cacheTTL)
	}

	return result, nil
}
