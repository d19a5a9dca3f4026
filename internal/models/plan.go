package models

import "time"

// Plan is a teaching assignment: one subject taught to one class within
// an area over a time span, with a weekly lesson pattern.
type Plan struct {
	ID         string    `db:"id" json:"id"`
	AreaID     string    `db:"area_id" json:"area_id"`
	ClassID    string    `db:"class_id" json:"class_id"`
	SubjectID  string    `db:"subject_id" json:"subject_id"`
	CreatorID  string    `db:"creator_id" json:"creator_id"`
	TimeSpanID string    `db:"time_span_id" json:"time_span_id"`
	TemplateID *string   `db:"template_id" json:"template_id,omitempty"`
	IsDraft    bool      `db:"is_draft" json:"is_draft"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Lesson is one recurring weekly slot of a plan. WeekDay is
// Monday-indexed (0 = Monday .. 5 = Saturday); start and end are
// minutes from midnight.
type Lesson struct {
	ID        string `db:"id" json:"id"`
	PlanID    string `db:"plan_id" json:"plan_id"`
	WeekDay   int    `db:"week_day" json:"week_day"`
	StartTime int    `db:"start_time" json:"start_time"`
	EndTime   int    `db:"end_time" json:"end_time"`
}

// PlanSummary joins display names for list views.
type PlanSummary struct {
	Plan
	SubjectName string    `db:"subject_name" json:"subject_name"`
	ClassName   string    `db:"class_name" json:"class_name"`
	AreaName    string    `db:"area_name" json:"area_name"`
	CreatorName string    `db:"creator_name" json:"creator_name"`
	SpanStart   time.Time `db:"span_start" json:"span_start"`
	SpanEnd     time.Time `db:"span_end" json:"span_end"`
}

// PlanTemporal selects which slice of the calendar a plan listing covers.
type PlanTemporal string

const (
	PlanTemporalCurrent PlanTemporal = "current"
	PlanTemporalPast    PlanTemporal = "past"
	PlanTemporalFuture  PlanTemporal = "future"
)

// PlanFilter narrows plan listings.
type PlanFilter struct {
	Temporal PlanTemporal
	Search   string
	AreaID   string
	// Now anchors the current/past/future split; zero means time.Now.
	Now time.Time
}
