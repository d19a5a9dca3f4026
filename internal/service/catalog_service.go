package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

type catalogStore interface {
	ListAreas(ctx context.Context) ([]models.Area, error)
	FindAreaBySlug(ctx context.Context, slug string) (*models.Area, error)
	ListClassesByArea(ctx context.Context, areaID string) ([]models.Class, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListTimeSpans(ctx context.Context) ([]models.TimeSpan, error)
}

// CatalogService reads the static master data plans are built from.
type CatalogService struct {
	catalog catalogStore
}

// NewCatalogService constructs a catalog service.
func NewCatalogService(catalog catalogStore) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Areas lists every school area.
func (s *CatalogService) Areas(ctx context.Context) ([]models.Area, error) {
	areas, err := s.catalog.ListAreas(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list areas")
	}
	return areas, nil
}

// AreaBySlug resolves an area by id or route name.
func (s *CatalogService) AreaBySlug(ctx context.Context, slug string) (*models.Area, error) {
	area, err := s.catalog.FindAreaBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "area not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load area")
	}
	return area, nil
}

// ClassesByArea lists the classes of one area.
func (s *CatalogService) ClassesByArea(ctx context.Context, areaID string) ([]models.Class, error) {
	classes, err := s.catalog.ListClassesByArea(ctx, areaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Subjects lists every subject.
func (s *CatalogService) Subjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.catalog.ListSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// TimeSpans lists the semesters, newest first.
func (s *CatalogService) TimeSpans(ctx context.Context) ([]models.TimeSpan, error) {
	spans, err := s.catalog.ListTimeSpans(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time spans")
	}
	return spans, nil
}
