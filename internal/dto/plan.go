package dto

// CreatePlanRequest starts a new visitation plan.
type CreatePlanRequest struct {
	SchoolName string `json:"schoolName" validate:"omitempty,max=120"`
}

// UpdateSchoolRequest renames the plan's school.
type UpdateSchoolRequest struct {
	SchoolName string `json:"schoolName" validate:"required,max=120"`
}

// PeriodInput is one row of the period table.
type PeriodInput struct {
	Period int    `json:"period" validate:"required,min=1"`
	Start  string `json:"start" validate:"required,datetime=15:04"`
	End    string `json:"end" validate:"required,datetime=15:04"`
}

// SetPeriodsRequest replaces the plan's period table.
type SetPeriodsRequest struct {
	Periods []PeriodInput `json:"periods" validate:"required,min=1,max=16,dive"`
}

// AddClassRequest registers a single class named "<grade>-<classNumber>".
type AddClassRequest struct {
	Grade       int `json:"grade" validate:"required,min=1"`
	ClassNumber int `json:"classNumber" validate:"required,min=1"`
}

// BatchAddClassesRequest registers "<grade>-1" .. "<grade>-<upTo>" in one go,
// skipping names already present.
type BatchAddClassesRequest struct {
	Grade int `json:"grade" validate:"required,min=1"`
	UpTo  int `json:"upTo" validate:"required,min=1,max=50"`
}

// PatternCellRequest assigns class ids to one weekday/period slot.
type PatternCellRequest struct {
	Day      string   `json:"day" validate:"required"`
	Period   int      `json:"period" validate:"required,min=1"`
	ClassIDs []string `json:"classIds"`
}

// SetHolidaysRequest replaces the excluded date set.
type SetHolidaysRequest struct {
	Holidays []string `json:"holidays" validate:"dive,datetime=2006-01-02"`
}

// ClassSettingRequest upserts a class's start date and session quota.
type ClassSettingRequest struct {
	StartDate     string `json:"startDate" validate:"required,datetime=2006-01-02"`
	TotalSessions int    `json:"totalSessions" validate:"required,min=1"`
}
