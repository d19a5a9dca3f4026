package models

import "time"

// AppointmentType discriminates the typed payload of an appointment.
type AppointmentType string

const (
	AppointmentTypeLesson    AppointmentType = "lesson"
	AppointmentTypeEvent     AppointmentType = "event"
	AppointmentTypeExcursion AppointmentType = "excursion"
)

// Appointment is a concrete dated occurrence belonging to a plan.
type Appointment struct {
	ID        string          `db:"id" json:"id"`
	PlanID    string          `db:"plan_id" json:"plan_id"`
	Type      AppointmentType `db:"type" json:"type"`
	StartAt   time.Time       `db:"start_at" json:"start"`
	EndAt     time.Time       `db:"end_at" json:"end"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// LessonAppointment carries the lesson-specific payload; its id equals
// the parent appointment id.
type LessonAppointment struct {
	ID        string  `db:"id" json:"id"`
	SubjectID string  `db:"subject_id" json:"subject_id"`
	TopicID   *string `db:"topic_id" json:"topic_id,omitempty"`
}

// EventAppointment carries the event-specific payload.
type EventAppointment struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// ExcursionAppointment carries the excursion-specific payload.
type ExcursionAppointment struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Location    string `db:"location" json:"location"`
}

// AppointmentRow is the flattened LEFT JOIN row used by listing queries;
// exactly one payload group is populated depending on Type.
type AppointmentRow struct {
	Appointment
	SubjectID      *string `db:"subject_id"`
	SubjectName    *string `db:"subject_name"`
	TopicID        *string `db:"topic_id"`
	TopicName      *string `db:"topic_name"`
	EventName      *string `db:"event_name"`
	EventDesc      *string `db:"event_description"`
	ExcursionName  *string `db:"excursion_name"`
	ExcursionDesc  *string `db:"excursion_description"`
	ExcursionPlace *string `db:"excursion_location"`
}

// LessonSlot is a lesson appointment joined with its parent timing. The
// segmentation engine operates exclusively on ordered slices of these.
type LessonSlot struct {
	ID        string    `db:"id" json:"id"`
	PlanID    string    `db:"plan_id" json:"plan_id"`
	StartAt   time.Time `db:"start_at" json:"start"`
	EndAt     time.Time `db:"end_at" json:"end"`
	TopicID   *string   `db:"topic_id" json:"topic_id,omitempty"`
	TopicName *string   `db:"topic_name" json:"topic_name,omitempty"`
}

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	PlanID    string
	AreaID    string
	SubjectID string
}
