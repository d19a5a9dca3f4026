package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

type fakeTemplateStore struct {
	template   *models.PlanTemplate
	findErr    error
	exceptions []models.TemplateAppointment
	usages     []models.TemplateUsage
	emptyUsage int
}

func (f *fakeTemplateStore) FindByID(context.Context, string) (*models.PlanTemplate, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.template, nil
}

func (f *fakeTemplateStore) ListExceptions(context.Context, string) ([]models.TemplateAppointment, error) {
	return f.exceptions, nil
}

func (f *fakeTemplateStore) ListForPlan(context.Context, string, string) ([]models.TemplateUsage, error) {
	return f.usages, nil
}

func (f *fakeTemplateStore) CountEmptyUsage(context.Context, string) (int, error) {
	return f.emptyUsage, nil
}

type fakeTemplatePlanStore struct {
	plan *models.Plan
	err  error
}

func (f *fakeTemplatePlanStore) FindByID(context.Context, string) (*models.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.plan, nil
}

func TestForPlanOffersEmptyTemplateFirst(t *testing.T) {
	templates := &fakeTemplateStore{
		emptyUsage: 4,
		usages: []models.TemplateUsage{{
			PlanTemplate:     models.PlanTemplate{ID: "tpl-1", Name: "Spring calendar"},
			PlanCount:        2,
			AppointmentCount: 7,
		}},
	}
	plans := &fakeTemplatePlanStore{plan: &models.Plan{ID: "plan-1", TimeSpanID: "span-1", AreaID: "area-1"}}
	svc := NewTemplateService(templates, plans, nil)

	options, err := svc.ForPlan(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Len(t, options, 2)

	assert.Equal(t, dto.EmptyTemplateID, options[0].ID)
	assert.Equal(t, 4, options[0].Usage)
	assert.Zero(t, options[0].Events)

	assert.Equal(t, "tpl-1", options[1].ID)
	assert.Equal(t, "Spring calendar", options[1].Name)
	assert.Equal(t, 2, options[1].Usage)
	assert.Equal(t, 7, options[1].Events)
}

func TestForPlanUnknownPlan(t *testing.T) {
	svc := NewTemplateService(&fakeTemplateStore{}, &fakeTemplatePlanStore{err: sql.ErrNoRows}, nil)

	_, err := svc.ForPlan(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExceptionsForKnownTemplate(t *testing.T) {
	templates := &fakeTemplateStore{
		template: &models.PlanTemplate{ID: "tpl-1"},
		exceptions: []models.TemplateAppointment{{
			ID:         "exc-1",
			TemplateID: "tpl-1",
			Kind:       models.TemplateKindHoliday,
			StartAt:    time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
			EndAt:      time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		}},
	}
	svc := NewTemplateService(templates, &fakeTemplatePlanStore{}, nil)

	exceptions, err := svc.Exceptions(context.Background(), "tpl-1")
	require.NoError(t, err)
	require.Len(t, exceptions, 1)
	assert.Equal(t, models.TemplateKindHoliday, exceptions[0].Kind)
}

func TestExceptionsUnknownTemplate(t *testing.T) {
	svc := NewTemplateService(&fakeTemplateStore{findErr: sql.ErrNoRows}, &fakeTemplatePlanStore{}, nil)

	_, err := svc.Exceptions(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
