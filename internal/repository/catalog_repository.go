package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

// CatalogRepository reads the reference data plans are built from:
// areas, classes, subjects, time spans and teachers.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListAreas returns every area.
func (r *CatalogRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	if err := r.db.SelectContext(ctx, &areas, `SELECT id, name, route_name FROM areas ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

// FindAreaBySlug resolves an area by id or by its lower-cased route name.
func (r *CatalogRepository) FindAreaBySlug(ctx context.Context, slug string) (*models.Area, error) {
	const query = `SELECT id, name, route_name FROM areas WHERE id = $1 OR route_name = $2 LIMIT 1`
	var area models.Area
	if err := r.db.GetContext(ctx, &area, query, slug, strings.ToLower(slug)); err != nil {
		return nil, err
	}
	return &area, nil
}

// ListClassesByArea returns the classes of one area.
func (r *CatalogRepository) ListClassesByArea(ctx context.Context, areaID string) ([]models.Class, error) {
	const query = `SELECT id, name, route_name, area_id FROM classes WHERE area_id = $1 ORDER BY name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, areaID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListSubjects returns every subject ordered by name.
func (r *CatalogRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, `SELECT id, name, icon, route_name FROM subjects ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindSubject fetches a single subject.
func (r *CatalogRepository) FindSubject(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, `SELECT id, name, icon, route_name FROM subjects WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListTimeSpans returns planning periods, most recent first.
func (r *CatalogRepository) ListTimeSpans(ctx context.Context) ([]models.TimeSpan, error) {
	var spans []models.TimeSpan
	if err := r.db.SelectContext(ctx, &spans, `SELECT id, name, start_at, end_at FROM time_spans ORDER BY start_at DESC`); err != nil {
		return nil, fmt.Errorf("list time spans: %w", err)
	}
	return spans, nil
}

// FindTimeSpan fetches a single time span.
func (r *CatalogRepository) FindTimeSpan(ctx context.Context, id string) (*models.TimeSpan, error) {
	var span models.TimeSpan
	if err := r.db.GetContext(ctx, &span, `SELECT id, name, start_at, end_at FROM time_spans WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &span, nil
}

// FindFirstTeacher returns the fallback plan creator.
func (r *CatalogRepository) FindFirstTeacher(ctx context.Context) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, `SELECT id, name, abbreviation FROM teachers ORDER BY name ASC LIMIT 1`); err != nil {
		return nil, err
	}
	return &teacher, nil
}
