package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

// AppointmentRepository persists appointments and their typed payloads.
// Mutating methods accept an optional sqlx.ExtContext so services can run
// multi-statement sequences inside one transaction.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an appointment repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *AppointmentRepository) queryer(exec sqlx.ExtContext) sqlx.QueryerContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const appointmentRowColumns = `a.id, a.plan_id, a.type, a.start_at, a.end_at, a.created_at,
la.subject_id AS subject_id, s.name AS subject_name, la.topic_id AS topic_id, t.name AS topic_name,
ev.name AS event_name, ev.description AS event_description,
ex.name AS excursion_name, ex.description AS excursion_description, ex.location AS excursion_location`

const appointmentRowJoins = `FROM appointments a
LEFT JOIN lesson_appointments la ON la.id = a.id
LEFT JOIN subjects s ON s.id = la.subject_id
LEFT JOIN topics t ON t.id = la.topic_id
LEFT JOIN event_appointments ev ON ev.id = a.id
LEFT JOIN excursion_appointments ex ON ex.id = a.id`

// ListRows returns appointments with their typed payloads, ordered by
// start ascending.
func (r *AppointmentRepository) ListRows(ctx context.Context, filter models.AppointmentFilter) ([]models.AppointmentRow, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.PlanID != "" {
		where = append(where, fmt.Sprintf("a.plan_id = $%d", len(args)+1))
		args = append(args, filter.PlanID)
	}
	if filter.AreaID != "" {
		where = append(where, fmt.Sprintf("p.area_id = $%d", len(args)+1))
		args = append(args, filter.AreaID)
	}
	if filter.SubjectID != "" {
		where = append(where, fmt.Sprintf("la.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}

	joins := appointmentRowJoins
	if filter.AreaID != "" {
		joins += "\nJOIN plans p ON p.id = a.plan_id"
	}

	query := fmt.Sprintf("SELECT %s\n%s\nWHERE %s\nORDER BY a.start_at ASC",
		appointmentRowColumns, joins, strings.Join(where, " AND "))

	var rows []models.AppointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return rows, nil
}

// CreateLesson inserts a lesson appointment. The parent insert is
// idempotent per (plan, start); when the slot already exists no payload
// row is written and created is false.
func (r *AppointmentRepository) CreateLesson(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment, subjectID string, topicID *string) (bool, error) {
	created, err := r.insertParent(ctx, exec, appt, models.AppointmentTypeLesson)
	if err != nil || !created {
		return false, err
	}
	const query = `INSERT INTO lesson_appointments (id, subject_id, topic_id) VALUES ($1, $2, $3)`
	if _, err := r.exec(exec).ExecContext(ctx, query, appt.ID, subjectID, topicID); err != nil {
		return false, fmt.Errorf("create lesson appointment: %w", err)
	}
	return true, nil
}

// CreateEvent inserts an event appointment.
func (r *AppointmentRepository) CreateEvent(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment, payload models.EventAppointment) error {
	created, err := r.insertParent(ctx, exec, appt, models.AppointmentTypeEvent)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("create event appointment: slot already taken")
	}
	const query = `INSERT INTO event_appointments (id, name, description) VALUES ($1, $2, $3)`
	if _, err := r.exec(exec).ExecContext(ctx, query, appt.ID, payload.Name, payload.Description); err != nil {
		return fmt.Errorf("create event appointment: %w", err)
	}
	return nil
}

// CreateExcursion inserts an excursion appointment.
func (r *AppointmentRepository) CreateExcursion(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment, payload models.ExcursionAppointment) error {
	created, err := r.insertParent(ctx, exec, appt, models.AppointmentTypeExcursion)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("create excursion appointment: slot already taken")
	}
	const query = `INSERT INTO excursion_appointments (id, name, description, location) VALUES ($1, $2, $3, $4)`
	if _, err := r.exec(exec).ExecContext(ctx, query, appt.ID, payload.Name, payload.Description, payload.Location); err != nil {
		return fmt.Errorf("create excursion appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) insertParent(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment, kind models.AppointmentType) (bool, error) {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now().UTC()
	}
	appt.Type = kind

	const query = `INSERT INTO appointments (id, plan_id, type, start_at, end_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (plan_id, start_at) DO NOTHING
RETURNING id`
	rows, err := r.exec(exec).QueryxContext(ctx, query, appt.ID, appt.PlanID, appt.Type, appt.StartAt, appt.EndAt, appt.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("create appointment: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	return true, rows.Err()
}

// HasLessons reports whether a plan owns any generated lesson appointments.
func (r *AppointmentRepository) HasLessons(ctx context.Context, planID string) (bool, error) {
	const query = `SELECT EXISTS (
SELECT 1 FROM appointments a JOIN lesson_appointments la ON la.id = a.id WHERE a.plan_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, planID); err != nil {
		return false, fmt.Errorf("check lesson appointments: %w", err)
	}
	return exists, nil
}

const lessonSlotColumns = `a.id, a.plan_id, a.start_at, a.end_at, la.topic_id AS topic_id, t.name AS topic_name`

const lessonSlotJoins = `FROM appointments a
JOIN lesson_appointments la ON la.id = a.id
LEFT JOIN topics t ON t.id = la.topic_id`

// ListSlots returns every lesson slot ordered by start.
func (r *AppointmentRepository) ListSlots(ctx context.Context) ([]models.LessonSlot, error) {
	query := fmt.Sprintf("SELECT %s\n%s\nORDER BY a.start_at ASC", lessonSlotColumns, lessonSlotJoins)
	var slots []models.LessonSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list lesson slots: %w", err)
	}
	return slots, nil
}

// ListSlotsByPlan returns a plan's lesson slots ordered by start.
func (r *AppointmentRepository) ListSlotsByPlan(ctx context.Context, planID string) ([]models.LessonSlot, error) {
	query := fmt.Sprintf("SELECT %s\n%s\nWHERE a.plan_id = $1\nORDER BY a.start_at ASC", lessonSlotColumns, lessonSlotJoins)
	var slots []models.LessonSlot
	if err := r.db.SelectContext(ctx, &slots, query, planID); err != nil {
		return nil, fmt.Errorf("list lesson slots by plan: %w", err)
	}
	return slots, nil
}

// ListSlotsFrom returns all lesson slots starting at or after the given
// instant, ordered by start. This is the working window of a move.
func (r *AppointmentRepository) ListSlotsFrom(ctx context.Context, exec sqlx.ExtContext, from time.Time) ([]models.LessonSlot, error) {
	query := fmt.Sprintf("SELECT %s\n%s\nWHERE a.start_at >= $1\nORDER BY a.start_at ASC", lessonSlotColumns, lessonSlotJoins)
	var slots []models.LessonSlot
	if err := sqlx.SelectContext(ctx, r.queryer(exec), &slots, query, from); err != nil {
		return nil, fmt.Errorf("list lesson slots from %s: %w", from, err)
	}
	return slots, nil
}

// ListBlockSlots returns the lesson slots of one topic block, bounded
// inclusively by start/end, ordered by start ascending.
func (r *AppointmentRepository) ListBlockSlots(ctx context.Context, exec sqlx.ExtContext, topicID string, start, end time.Time) ([]models.LessonSlot, error) {
	query := fmt.Sprintf("SELECT %s\n%s\nWHERE la.topic_id = $1 AND a.start_at >= $2 AND a.end_at <= $3\nORDER BY a.start_at ASC",
		lessonSlotColumns, lessonSlotJoins)
	var slots []models.LessonSlot
	if err := sqlx.SelectContext(ctx, r.queryer(exec), &slots, query, topicID, start, end); err != nil {
		return nil, fmt.Errorf("list block slots: %w", err)
	}
	return slots, nil
}

// ListUnassignedSlots returns lesson slots without a topic at or after
// the given start inside a plan, ordered by start, capped at limit.
func (r *AppointmentRepository) ListUnassignedSlots(ctx context.Context, exec sqlx.ExtContext, planID string, from time.Time, limit int) ([]models.LessonSlot, error) {
	query := fmt.Sprintf("SELECT %s\n%s\nWHERE a.plan_id = $1 AND la.topic_id IS NULL AND a.start_at >= $2\nORDER BY a.start_at ASC\nLIMIT $3",
		lessonSlotColumns, lessonSlotJoins)
	var slots []models.LessonSlot
	if err := sqlx.SelectContext(ctx, r.queryer(exec), &slots, query, planID, from, limit); err != nil {
		return nil, fmt.Errorf("list unassigned slots: %w", err)
	}
	return slots, nil
}

// AssignTopic sets the topic of the identified lesson appointments.
func (r *AppointmentRepository) AssignTopic(ctx context.Context, exec sqlx.ExtContext, ids []string, topicID *string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `UPDATE lesson_appointments SET topic_id = $1 WHERE id = ANY($2)`
	if _, err := r.exec(exec).ExecContext(ctx, query, topicID, pq.Array(ids)); err != nil {
		return fmt.Errorf("assign topic: %w", err)
	}
	return nil
}

// TopicScopeFilter narrows ReassignTopic beyond the old-topic match.
type TopicScopeFilter struct {
	PlanID string
	Start  *time.Time
	End    *time.Time
}

// ReassignTopic moves lesson appointments from one topic (nil meaning
// "no topic") to another, honouring the scope filter. Returns the number
// of reassigned rows.
func (r *AppointmentRepository) ReassignTopic(ctx context.Context, exec sqlx.ExtContext, oldTopicID *string, newTopicID string, scope TopicScopeFilter) (int64, error) {
	where := []string{}
	args := []interface{}{newTopicID}

	if oldTopicID == nil {
		where = append(where, "la.topic_id IS NULL")
	} else {
		where = append(where, fmt.Sprintf("la.topic_id = $%d", len(args)+1))
		args = append(args, *oldTopicID)
	}
	if scope.PlanID != "" {
		where = append(where, fmt.Sprintf("a.plan_id = $%d", len(args)+1))
		args = append(args, scope.PlanID)
	}
	if scope.Start != nil {
		where = append(where, fmt.Sprintf("a.start_at >= $%d", len(args)+1))
		args = append(args, *scope.Start)
	}
	if scope.End != nil {
		where = append(where, fmt.Sprintf("a.end_at <= $%d", len(args)+1))
		args = append(args, *scope.End)
	}

	query := fmt.Sprintf(`UPDATE lesson_appointments la SET topic_id = $1
FROM appointments a WHERE a.id = la.id AND %s`, strings.Join(where, " AND "))
	res, err := r.exec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reassign topic: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign topic rows: %w", err)
	}
	return affected, nil
}

// CountByTopic counts lesson appointments referencing a topic.
func (r *AppointmentRepository) CountByTopic(ctx context.Context, exec sqlx.ExtContext, topicID string) (int, error) {
	const query = `SELECT COUNT(*) FROM lesson_appointments WHERE topic_id = $1`
	var count int
	if err := sqlx.GetContext(ctx, r.queryer(exec), &count, query, topicID); err != nil {
		return 0, fmt.Errorf("count by topic: %w", err)
	}
	return count, nil
}

// CountDistinctTopicsByPlan counts different defined topics in a plan.
func (r *AppointmentRepository) CountDistinctTopicsByPlan(ctx context.Context, planID string) (int, error) {
	const query = `SELECT COUNT(DISTINCT la.topic_id) FROM lesson_appointments la
JOIN appointments a ON a.id = la.id WHERE a.plan_id = $1 AND la.topic_id IS NOT NULL`
	var count int
	if err := r.db.GetContext(ctx, &count, query, planID); err != nil {
		return 0, fmt.Errorf("count distinct topics: %w", err)
	}
	return count, nil
}

// UpdateSlotTime rewrites the parent timing of one lesson appointment.
func (r *AppointmentRepository) UpdateSlotTime(ctx context.Context, exec sqlx.ExtContext, id string, start, end time.Time) error {
	const query = `UPDATE appointments SET start_at = $2, end_at = $3 WHERE id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, id, start, end); err != nil {
		return fmt.Errorf("update slot time: %w", err)
	}
	return nil
}
