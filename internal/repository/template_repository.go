package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

// TemplateRepository reads calendar templates. Templates are authored
// elsewhere; the planner only consumes them.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository constructs a template repository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// FindByID fetches a template.
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*models.PlanTemplate, error) {
	const query = `SELECT id, name, description, is_draft, area_id, time_span_id, created_at
FROM plan_templates WHERE id = $1`
	var tpl models.PlanTemplate
	if err := r.db.GetContext(ctx, &tpl, query, id); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ListExceptions returns a template's calendar exceptions ordered by start.
func (r *TemplateRepository) ListExceptions(ctx context.Context, templateID string) ([]models.TemplateAppointment, error) {
	const query = `SELECT id, template_id, kind, start_at, end_at FROM template_appointments
WHERE template_id = $1 ORDER BY start_at ASC`
	var exceptions []models.TemplateAppointment
	if err := r.db.SelectContext(ctx, &exceptions, query, templateID); err != nil {
		return nil, fmt.Errorf("list template exceptions: %w", err)
	}
	return exceptions, nil
}

// ListForPlan returns non-draft templates selectable for a plan: same
// time span, restricted to the plan's area or unrestricted. Usage counts
// are joined in.
func (r *TemplateRepository) ListForPlan(ctx context.Context, timeSpanID, areaID string) ([]models.TemplateUsage, error) {
	const query = `SELECT t.id, t.name, t.description, t.is_draft, t.area_id, t.time_span_id, t.created_at,
(SELECT COUNT(*) FROM plans p WHERE p.template_id = t.id) AS plan_count,
(SELECT COUNT(*) FROM template_appointments ta WHERE ta.template_id = t.id) AS appointment_count
FROM plan_templates t
WHERE NOT t.is_draft AND t.time_span_id = $1 AND (t.area_id = $2 OR t.area_id IS NULL)
ORDER BY t.name ASC`
	var templates []models.TemplateUsage
	if err := r.db.SelectContext(ctx, &templates, query, timeSpanID, areaID); err != nil {
		return nil, fmt.Errorf("list templates for plan: %w", err)
	}
	return templates, nil
}

// CountEmptyUsage counts finished plans in a time span that run without
// a template, feeding the synthetic "empty" template's usage figure.
func (r *TemplateRepository) CountEmptyUsage(ctx context.Context, timeSpanID string) (int, error) {
	const query = `SELECT COUNT(*) FROM plans
WHERE template_id IS NULL AND time_span_id = $1 AND NOT is_draft`
	var count int
	if err := r.db.GetContext(ctx, &count, query, timeSpanID); err != nil {
		return 0, fmt.Errorf("count empty template usage: %w", err)
	}
	return count, nil
}
