package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

type templateStore interface {
	FindByID(ctx context.Context, id string) (*models.PlanTemplate, error)
	ListExceptions(ctx context.Context, templateID string) ([]models.TemplateAppointment, error)
	ListForPlan(ctx context.Context, timeSpanID, areaID string) ([]models.TemplateUsage, error)
	CountEmptyUsage(ctx context.Context, timeSpanID string) (int, error)
}

type templatePlanStore interface {
	FindByID(ctx context.Context, id string) (*models.Plan, error)
}

// TemplateService serves the template pick list for plan setup. The
// synthetic empty template is always offered first.
type TemplateService struct {
	templates templateStore
	plans     templatePlanStore
	logger    *zap.Logger
}

// NewTemplateService constructs a template service.
func NewTemplateService(templates templateStore, plans templatePlanStore, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{templates: templates, plans: plans, logger: logger}
}

// ForPlan lists the templates selectable for one plan: those sharing the
// plan's time span and either unrestricted or matching the plan's area,
// plus the empty template.
func (s *TemplateService) ForPlan(ctx context.Context, planID string) ([]dto.TemplateOption, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	emptyUsage, err := s.templates.CountEmptyUsage(ctx, plan.TimeSpanID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count template usage")
	}

	usages, err := s.templates.ListForPlan(ctx, plan.TimeSpanID, plan.AreaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}

	options := make([]dto.TemplateOption, 0, len(usages)+1)
	options = append(options, dto.TemplateOption{
		ID:          dto.EmptyTemplateID,
		Name:        "Empty template",
		Description: "Start from scratch without calendar exceptions.",
		Usage:       emptyUsage,
	})
	for _, usage := range usages {
		options = append(options, dto.TemplateOption{
			ID:          usage.ID,
			Name:        usage.Name,
			Description: usage.Description,
			Usage:       usage.PlanCount,
			Events:      usage.AppointmentCount,
		})
	}
	return options, nil
}

// Exceptions returns a template's calendar exceptions ordered by start.
func (s *TemplateService) Exceptions(ctx context.Context, templateID string) ([]models.TemplateAppointment, error) {
	if _, err := s.templates.FindByID(ctx, templateID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	exceptions, err := s.templates.ListExceptions(ctx, templateID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list template exceptions")
	}
	return exceptions, nil
}
