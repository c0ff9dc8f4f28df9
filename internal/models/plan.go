package models

import "time"

// Period is an instructional time slot. Numbers form a contiguous 1..N
// sequence; Start/End are local clock times in HH:MM form.
type Period struct {
	Number int    `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// ClassInfo identifies a registered class and its display colour.
type ClassInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ClassSetting carries per-class expansion inputs. StartDate is an ISO
// yyyy-MM-dd string; TotalSessions is the class's session quota.
type ClassSetting struct {
	StartDate     string `json:"startDate"`
	TotalSessions int    `json:"totalSessions"`
}

// WeeklyPattern maps a weekday label to period number to the class ids
// assigned to that slot. Ids may reference classes no longer in the roster;
// consumers filter those out instead of failing.
type WeeklyPattern map[string]map[int][]string

// WeekdayLabels maps time.Weekday ordinals (Sunday=0) to the labels used
// throughout pattern keys and rendered output.
var WeekdayLabels = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// PatternWeekdays enumerates the weekdays a pattern may assign (Mon-Fri).
var PatternWeekdays = []string{"월", "화", "수", "목", "금"}

// ClassPalette is the preset colour cycle assigned by roster position.
var ClassPalette = []string{
	"#fca5a5", "#fdba74", "#fcd34d", "#86efac", "#6ee7b7",
	"#5eead4", "#93c5fd", "#a5b4fc", "#c4b5fd", "#d8b4fe",
	"#f9a8d4", "#fda4af", "#cbd5e1",
}

// PlanState is an immutable snapshot of one visitation plan. Edits go
// through reducers that return a fresh value with Version bumped; nothing
// mutates a stored snapshot in place.
type PlanState struct {
	ID         string                  `json:"id"`
	SchoolName string                  `json:"schoolName"`
	Periods    []Period                `json:"periods"`
	Classes    []ClassInfo             `json:"classes"`
	Pattern    WeeklyPattern           `json:"weeklyPattern"`
	Holidays   []string                `json:"holidays"`
	Settings   map[string]ClassSetting `json:"classSettings"`
	Version    int64                   `json:"version"`
	CreatedAt  time.Time               `json:"createdAt"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// DefaultPeriods returns the six-period timetable a new plan starts with.
func DefaultPeriods() []Period {
	return []Period{
		{Number: 1, Start: "09:00", End: "09:40"},
		{Number: 2, Start: "09:50", End: "10:30"},
		{Number: 3, Start: "10:40", End: "11:20"},
		{Number: 4, Start: "11:30", End: "12:10"},
		{Number: 5, Start: "13:00", End: "13:40"},
		{Number: 6, Start: "13:50", End: "14:30"},
	}
}

// EmptyPattern returns a pattern with every editable weekday present.
func EmptyPattern() WeeklyPattern {
	pattern := make(WeeklyPattern, len(PatternWeekdays))
	for _, day := range PatternWeekdays {
		pattern[day] = make(map[int][]string)
	}
	return pattern
}

// Clone deep-copies the snapshot so reducers can derive a new state without
// aliasing slices or maps of the source.
func (p PlanState) Clone() PlanState {
	next := p

	next.Periods = append([]Period(nil), p.Periods...)
	next.Classes = append([]ClassInfo(nil), p.Classes...)
	next.Holidays = append([]string(nil), p.Holidays...)

	next.Pattern = make(WeeklyPattern, len(p.Pattern))
	for day, slots := range p.Pattern {
		copied := make(map[int][]string, len(slots))
		for period, ids := range slots {
			copied[period] = append([]string(nil), ids...)
		}
		next.Pattern[day] = copied
	}

	next.Settings = make(map[string]ClassSetting, len(p.Settings))
	for id, setting := range p.Settings {
		next.Settings[id] = setting
	}

	return next
}

// HasClassName reports whether a class with the given display name exists.
func (p PlanState) HasClassName(name string) bool {
	for _, cls := range p.Classes {
		if cls.Name == name {
			return true
		}
	}
	return false
}
