package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

func newTxProviderMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

type fakeGeneratorPlans struct {
	plan        *models.Plan
	planErr     error
	lessons     []models.Lesson
	setTemplate []*string
}

func (f *fakeGeneratorPlans) FindByID(context.Context, string) (*models.Plan, error) {
	if f.planErr != nil {
		return nil, f.planErr
	}
	return f.plan, nil
}

func (f *fakeGeneratorPlans) ListLessons(context.Context, string) ([]models.Lesson, error) {
	return f.lessons, nil
}

func (f *fakeGeneratorPlans) SetTemplate(_ context.Context, _ sqlx.ExtContext, _ string, templateID *string) error {
	f.setTemplate = append(f.setTemplate, templateID)
	return nil
}

type fakeGeneratorTemplates struct {
	template   *models.PlanTemplate
	findErr    error
	exceptions []models.TemplateAppointment
}

func (f *fakeGeneratorTemplates) FindByID(context.Context, string) (*models.PlanTemplate, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.template, nil
}

func (f *fakeGeneratorTemplates) ListExceptions(context.Context, string) ([]models.TemplateAppointment, error) {
	return f.exceptions, nil
}

type fakeGeneratorAppointments struct {
	hasLessons bool
	taken      map[string]bool
	created    []models.Appointment
}

func (f *fakeGeneratorAppointments) CreateLesson(_ context.Context, _ sqlx.ExtContext, appt *models.Appointment, _ string, _ *string) (bool, error) {
	key := appt.StartAt.Format(time.RFC3339)
	if f.taken[key] {
		return false, nil
	}
	f.created = append(f.created, *appt)
	return true, nil
}

func (f *fakeGeneratorAppointments) HasLessons(context.Context, string) (bool, error) {
	return f.hasLessons, nil
}

type fakeSpanStore struct {
	span *models.TimeSpan
}

func (f *fakeSpanStore) FindTimeSpan(context.Context, string) (*models.TimeSpan, error) {
	return f.span, nil
}

func newGeneratorFixture(t *testing.T) (*GeneratorService, *fakeGeneratorPlans, *fakeGeneratorTemplates, *fakeGeneratorAppointments, sqlmock.Sqlmock, func()) {
	db, mock, cleanup := newTxProviderMock(t)

	// one school week: Monday 2026-03-02 up to (excluding) Monday 2026-03-09
	span := &models.TimeSpan{
		ID:      "span-1",
		Name:    "Spring 2026",
		StartAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	plans := &fakeGeneratorPlans{
		plan: &models.Plan{ID: "plan-1", SubjectID: "subject-1", TimeSpanID: span.ID},
		lessons: []models.Lesson{
			{ID: "l1", PlanID: "plan-1", WeekDay: 0, StartTime: 8*60 + 30, EndTime: 10 * 60},
			{ID: "l2", PlanID: "plan-1", WeekDay: 2, StartTime: 8*60 + 30, EndTime: 10 * 60},
		},
	}
	templates := &fakeGeneratorTemplates{template: &models.PlanTemplate{ID: "tpl-1", TimeSpanID: span.ID}}
	appointments := &fakeGeneratorAppointments{taken: map[string]bool{}}

	svc := NewGeneratorService(plans, templates, appointments, &fakeSpanStore{span: span}, db, nil, nil, nil, nil, GeneratorConfig{})
	return svc, plans, templates, appointments, mock, cleanup
}

func TestLessonWeekday(t *testing.T) {
	cases := map[time.Weekday]int{
		time.Sunday:    -1,
		time.Monday:    0,
		time.Tuesday:   1,
		time.Wednesday: 2,
		time.Thursday:  3,
		time.Friday:    4,
		time.Saturday:  5,
	}
	for day, want := range cases {
		assert.Equal(t, want, lessonWeekday(day), day.String())
	}
}

func TestGenerateExpandsWeeklyPattern(t *testing.T) {
	svc, plans, _, appointments, mock, cleanup := newGeneratorFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "plan-1", dto.GenerateAppointmentsRequest{TemplateID: "tpl-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.SkippedDay)
	assert.Equal(t, "tpl-1", result.TemplateID)

	require.Len(t, appointments.created, 2)
	// midnight + one hour offset + lesson minutes
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), appointments.created[0].StartAt)
	assert.Equal(t, time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC), appointments.created[0].EndAt)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC), appointments.created[1].StartAt)

	require.Len(t, plans.setTemplate, 1)
	require.NotNil(t, plans.setTemplate[0])
	assert.Equal(t, "tpl-1", *plans.setTemplate[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateSkipsVacationDays(t *testing.T) {
	svc, _, templates, appointments, mock, cleanup := newGeneratorFixture(t)
	defer cleanup()

	// vacation covering Wednesday; bounds are exclusive at hour
	// granularity so Tuesday start and Thursday end would still carry
	// lessons
	templates.exceptions = []models.TemplateAppointment{{
		ID:         "exc-1",
		TemplateID: "tpl-1",
		Kind:       models.TemplateKindVacation,
		StartAt:    time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}}

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "plan-1", dto.GenerateAppointmentsRequest{TemplateID: "tpl-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.SkippedDay)
	require.Len(t, appointments.created, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), appointments.created[0].StartAt)
}

func TestGenerateEarlyDismissalDropsLateLessons(t *testing.T) {
	svc, plans, templates, appointments, mock, cleanup := newGeneratorFixture(t)
	defer cleanup()

	// second Monday lesson ends after the 16:00 boundary
	plans.lessons = []models.Lesson{
		{ID: "l1", PlanID: "plan-1", WeekDay: 0, StartTime: 8*60 + 30, EndTime: 10 * 60},
		{ID: "l3", PlanID: "plan-1", WeekDay: 0, StartTime: 15 * 60, EndTime: 16*60 + 30},
	}
	templates.exceptions = []models.TemplateAppointment{{
		ID:         "exc-2",
		TemplateID: "tpl-1",
		Kind:       models.TemplateKindEarlyDay,
		StartAt:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC),
	}}

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "plan-1", dto.GenerateAppointmentsRequest{TemplateID: "tpl-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, appointments.created, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), appointments.created[0].StartAt)
}

func TestGenerateIsIdempotentPerSlot(t *testing.T) {
	svc, _, _, appointments, mock, cleanup := newGeneratorFixture(t)
	defer cleanup()

	appointments.taken[time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC).Format(time.RFC3339)] = true

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "plan-1", dto.GenerateAppointmentsRequest{TemplateID: "tpl-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestGenerateEmptyTemplateSelection(t *testing.T) {
	svc, plans, _, appointments, mock, cleanup := newGeneratorFixture(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "plan-1", dto.GenerateAppointmentsRequest{TemplateID: dto.EmptyTemplateID})
	require.NoError(t, err)
	assert.Empty(t, result.TemplateID)
	assert.Equal(t, 2, result.Created)
	assert.Len(t, appointments.created, 2)

	require.Len(t, plans.setTemplate, 1)
	assert.Nil(t, plans.setTemplate[0])
}

func TestGenerateVanishedTemplateDegradesToEmpty(t *testing.T) {
	svc, plans, templates, _, mock, cleanup := newGeneratorFixture(t)
	defer cleanup()

	templates.findErr = sql.ErrNoRows

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Generate(context.Background(), "plan-1", dto.GenerateAppointmentsRequest{TemplateID: "gone"})
	require.NoError(t, err)
	assert.Empty(t, result.TemplateID)
	require.Len(t, plans.setTemplate, 1)
	assert.Nil(t, plans.setTemplate[0])
}

func TestGenerateRejectsSecondRun(t *testing.T) {
	svc, plans, _, appointments, _, cleanup := newGeneratorFixture(t)
	defer cleanup()

	templateID := "tpl-1"
	plans.plan.TemplateID = &templateID
	appointments.hasLessons = true

	_, err := svc.Generate(context.Background(), "plan-1", dto.GenerateAppointmentsRequest{TemplateID: "tpl-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGeneratePlanNotFound(t *testing.T) {
	svc, plans, _, _, _, cleanup := newGeneratorFixture(t)
	defer cleanup()

	plans.planErr = sql.ErrNoRows

	_, err := svc.Generate(context.Background(), "missing", dto.GenerateAppointmentsRequest{TemplateID: "tpl-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
