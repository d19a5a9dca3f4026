package models

import "time"

// TemplateKind classifies a calendar exception inside a template.
type TemplateKind string

const (
	TemplateKindVacation TemplateKind = "vacation"
	TemplateKindHoliday  TemplateKind = "holiday"
	TemplateKindEarlyDay TemplateKind = "earlyday"
	TemplateKindEvent    TemplateKind = "event"
)

// PlanTemplate is a named, reusable set of calendar exceptions tied to a
// time span and optionally restricted to an area. Templates are
// read-only input to appointment generation.
type PlanTemplate struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	IsDraft     bool      `db:"is_draft" json:"is_draft"`
	AreaID      *string   `db:"area_id" json:"area_id,omitempty"`
	TimeSpanID  string    `db:"time_span_id" json:"time_span_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TemplateAppointment is a single exception range within a template.
type TemplateAppointment struct {
	ID         string       `db:"id" json:"id"`
	TemplateID string       `db:"template_id" json:"template_id"`
	Kind       TemplateKind `db:"kind" json:"kind"`
	StartAt    time.Time    `db:"start_at" json:"start"`
	EndAt      time.Time    `db:"end_at" json:"end"`
}

// TemplateUsage counts plans and exceptions of a selectable template.
type TemplateUsage struct {
	PlanTemplate
	PlanCount        int `db:"plan_count" json:"plan_count"`
	AppointmentCount int `db:"appointment_count" json:"appointment_count"`
}
