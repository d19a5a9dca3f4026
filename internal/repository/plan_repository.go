package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

// PlanRepository persists plans and their weekly lesson patterns.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs a plan repository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const planColumns = `id, area_id, class_id, subject_id, creator_id, time_span_id, template_id, is_draft, created_at, updated_at`

// FindByID fetches a plan.
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans WHERE id = $1`, planColumns)
	var plan models.Plan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindDraft returns the first draft plan, if any.
func (r *PlanRepository) FindDraft(ctx context.Context) (*models.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans WHERE is_draft ORDER BY created_at ASC LIMIT 1`, planColumns)
	var plan models.Plan
	if err := r.db.GetContext(ctx, &plan, query); err != nil {
		return nil, err
	}
	return &plan, nil
}

// List returns plan summaries filtered by temporal slice, search term
// and area.
func (r *PlanRepository) List(ctx context.Context, filter models.PlanFilter) ([]models.PlanSummary, error) {
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	where := []string{"1=1"}
	args := []interface{}{}

	switch filter.Temporal {
	case models.PlanTemporalPast:
		where = append(where, fmt.Sprintf("ts.end_at < $%d", len(args)+1))
		args = append(args, dayStart)
	case models.PlanTemporalFuture:
		where = append(where, fmt.Sprintf("ts.start_at > $%d", len(args)+1))
		args = append(args, dayEnd)
	default:
		where = append(where, fmt.Sprintf("ts.start_at <= $%d", len(args)+1))
		args = append(args, dayEnd)
		where = append(where, fmt.Sprintf("ts.end_at >= $%d", len(args)+1))
		args = append(args, dayStart)
	}

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(s.name ILIKE $%d OR c.name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.AreaID != "" {
		where = append(where, fmt.Sprintf("p.area_id = $%d", len(args)+1))
		args = append(args, filter.AreaID)
	}

	query := fmt.Sprintf(`SELECT p.id, p.area_id, p.class_id, p.subject_id, p.creator_id, p.time_span_id, p.template_id, p.is_draft, p.created_at, p.updated_at,
s.name AS subject_name, c.name AS class_name, ar.name AS area_name, te.name AS creator_name,
ts.start_at AS span_start, ts.end_at AS span_end
FROM plans p
JOIN subjects s ON s.id = p.subject_id
JOIN classes c ON c.id = p.class_id
JOIN areas ar ON ar.id = p.area_id
JOIN teachers te ON te.id = p.creator_id
JOIN time_spans ts ON ts.id = p.time_span_id
WHERE %s
ORDER BY ts.start_at ASC, s.name ASC`, strings.Join(where, " AND "))

	var plans []models.PlanSummary
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// ListLessons returns a plan's weekly pattern ordered by weekday and
// start minute.
func (r *PlanRepository) ListLessons(ctx context.Context, planID string) ([]models.Lesson, error) {
	const query = `SELECT id, plan_id, week_day, start_time, end_time FROM lessons
WHERE plan_id = $1 ORDER BY week_day ASC, start_time ASC`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, planID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// Create inserts a draft plan with its lessons.
func (r *PlanRepository) Create(ctx context.Context, exec sqlx.ExtContext, plan *models.Plan, lessons []models.Lesson) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
	plan.IsDraft = true

	const query = `INSERT INTO plans (id, area_id, class_id, subject_id, creator_id, time_span_id, template_id, is_draft, created_at, updated_at)
VALUES (:id, :area_id, :class_id, :subject_id, :creator_id, :time_span_id, :template_id, :is_draft, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, plan); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}

	for i := range lessons {
		lessons[i].PlanID = plan.ID
		if err := r.insertLesson(ctx, exec, &lessons[i]); err != nil {
			return err
		}
	}
	return nil
}

// Update rewrites plan attributes and upserts the lesson pattern:
// lessons with an id are updated, the rest inserted.
func (r *PlanRepository) Update(ctx context.Context, exec sqlx.ExtContext, plan *models.Plan, lessons []models.Lesson) error {
	plan.UpdatedAt = time.Now().UTC()
	const query = `UPDATE plans SET area_id = :area_id, class_id = :class_id, subject_id = :subject_id,
time_span_id = :time_span_id, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, plan); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}

	for i := range lessons {
		lessons[i].PlanID = plan.ID
		if lessons[i].ID == "" {
			if err := r.insertLesson(ctx, exec, &lessons[i]); err != nil {
				return err
			}
			continue
		}
		const update = `UPDATE lessons SET week_day = :week_day, start_time = :start_time, end_time = :end_time
WHERE id = :id AND plan_id = :plan_id`
		if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), update, &lessons[i]); err != nil {
			return fmt.Errorf("update lesson: %w", err)
		}
	}
	return nil
}

func (r *PlanRepository) insertLesson(ctx context.Context, exec sqlx.ExtContext, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	const query = `INSERT INTO lessons (id, plan_id, week_day, start_time, end_time)
VALUES (:id, :plan_id, :week_day, :start_time, :end_time)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// SetTemplate stores the selected template; nil clears the selection.
func (r *PlanRepository) SetTemplate(ctx context.Context, exec sqlx.ExtContext, planID string, templateID *string) error {
	const query = `UPDATE plans SET template_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, planID, templateID, time.Now().UTC()); err != nil {
		return fmt.Errorf("set plan template: %w", err)
	}
	return nil
}

// Finish clears the draft flag once topic definition is complete.
func (r *PlanRepository) Finish(ctx context.Context, id string) error {
	const query = `UPDATE plans SET is_draft = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("finish plan: %w", err)
	}
	return nil
}

// Delete removes a plan. Appointment and lesson rows cascade.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}
