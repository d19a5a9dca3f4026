package dto

import (
	"time"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

// SubjectRef is the subject slice of a lesson payload.
type SubjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TopicRef is the (possibly undefined) topic slice of a lesson payload.
type TopicRef struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// LessonData is the payload of a lesson appointment.
type LessonData struct {
	Subject SubjectRef `json:"subject"`
	Topic   TopicRef   `json:"topic"`
}

// EventData is the payload of an event appointment.
type EventData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExcursionData is the payload of an excursion appointment.
type ExcursionData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// AppointmentView is the typed union returned by appointment listings;
// exactly one payload field is set, matching Type.
type AppointmentView struct {
	ID        string                 `json:"id"`
	Type      models.AppointmentType `json:"type"`
	Start     time.Time              `json:"start"`
	End       time.Time              `json:"end"`
	Lesson    *LessonData            `json:"lesson,omitempty"`
	Event     *EventData             `json:"event,omitempty"`
	Excursion *ExcursionData         `json:"excursion,omitempty"`
}

// CreateAppointmentRequest creates a single appointment of any type.
// For lessons exactly one of TopicID / TopicName must be set; events and
// excursions carry name/description(/location) instead.
type CreateAppointmentRequest struct {
	PlanID      string                 `json:"plan_id" validate:"required"`
	Type        models.AppointmentType `json:"type" validate:"required,oneof=lesson event excursion"`
	Start       time.Time              `json:"start" validate:"required"`
	End         time.Time              `json:"end" validate:"required"`
	TopicID     *string                `json:"topic_id"`
	TopicName   *string                `json:"topic_name"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Location    string                 `json:"location"`
}

// GenerateAppointmentsRequest selects a template for a plan and expands
// the plan's weekly pattern into dated lesson appointments.
type GenerateAppointmentsRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
}

// GenerateAppointmentsResult reports what a generation run produced.
type GenerateAppointmentsResult struct {
	PlanID     string `json:"plan_id"`
	TemplateID string `json:"template_id,omitempty"`
	Created    int    `json:"created"`
	SkippedDay int    `json:"skipped_days"`
}
