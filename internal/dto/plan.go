package dto

import "github.com/lernfeld/semesterplan-api/internal/models"

// LessonInput is one weekly slot in a plan create/update payload. Times
// are wall-clock strings ("HH:MM"); the service converts them to
// minutes from midnight.
type LessonInput struct {
	ID        *string `json:"id"`
	WeekDay   int     `json:"week_day" validate:"gte=0,lte=5"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
}

// CreatePlanRequest starts a draft plan with its weekly pattern.
type CreatePlanRequest struct {
	TimeSpanID string        `json:"time_span_id" validate:"required"`
	AreaID     string        `json:"area_id" validate:"required"`
	ClassID    string        `json:"class_id" validate:"required"`
	SubjectID  string        `json:"subject_id" validate:"required"`
	Lessons    []LessonInput `json:"lessons" validate:"required,min=1,dive"`
}

// UpdatePlanRequest replaces plan attributes; lessons with an id are
// updated, lessons without one are created.
type UpdatePlanRequest struct {
	TimeSpanID string        `json:"time_span_id" validate:"required"`
	AreaID     string        `json:"area_id" validate:"required"`
	ClassID    string        `json:"class_id" validate:"required"`
	SubjectID  string        `json:"subject_id" validate:"required"`
	Lessons    []LessonInput `json:"lessons" validate:"required,min=1,dive"`
}

// PlanDetail bundles a plan with its lesson pattern for detail views.
type PlanDetail struct {
	models.Plan
	Subject models.Subject  `json:"subject"`
	Lessons []models.Lesson `json:"lessons"`
}
