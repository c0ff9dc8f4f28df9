package models

import "time"

// ScheduleItem is one concrete session of a class on a calendar date. Items
// are derived snapshots: name, colour and times are copied by value and the
// list is recomputed from plan state whenever inputs change.
type ScheduleItem struct {
	Date          string `json:"date"`
	DayOfWeek     string `json:"dayOfWeek"`
	Period        int    `json:"period"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	ClassName     string `json:"className"`
	ClassColor    string `json:"classColor"`
	SessionNumber int    `json:"sessionNumber"`
}

// TruncationWarning reports a class whose quota could not be met before the
// expansion walk hit its lookahead ceiling.
type TruncationWarning struct {
	ClassID           string `json:"classId"`
	ClassName         string `json:"className"`
	RequestedSessions int    `json:"requestedSessions"`
	ScheduledSessions int    `json:"scheduledSessions"`
}

// TimelineResult bundles one expansion run with its provenance.
type TimelineResult struct {
	PlanID      string              `json:"planId"`
	PlanVersion int64               `json:"planVersion"`
	Items       []ScheduleItem      `json:"items"`
	Warnings    []TruncationWarning `json:"warnings,omitempty"`
	GeneratedAt time.Time           `json:"generatedAt"`
}
