package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

type generatorPlanStore interface {
	FindByID(ctx context.Context, id string) (*models.Plan, error)
	ListLessons(ctx context.Context, planID string) ([]models.Lesson, error)
	SetTemplate(ctx context.Context, exec sqlx.ExtContext, planID string, templateID *string) error
}

type generatorTemplateStore interface {
	FindByID(ctx context.Context, id string) (*models.PlanTemplate, error)
	ListExceptions(ctx context.Context, templateID string) ([]models.TemplateAppointment, error)
}

type generatorAppointmentStore interface {
	CreateLesson(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment, subjectID string, topicID *string) (bool, error)
	HasLessons(ctx context.Context, planID string) (bool, error)
}

type generatorSpanStore interface {
	FindTimeSpan(ctx context.Context, id string) (*models.TimeSpan, error)
}

// GeneratorConfig tunes the expansion of a weekly pattern into dated
// appointments.
type GeneratorConfig struct {
	// EarlyDismissalMinute is the minute-of-day boundary; on early days
	// lessons ending after it are not generated.
	EarlyDismissalMinute int
	// StartOfDayOffset is added to each day's midnight before lesson
	// minutes are applied.
	StartOfDayOffset time.Duration
}

// GeneratorService expands a plan's weekly lesson pattern over its time
// span into dated lesson appointments, honouring the chosen template's
// calendar exceptions. Generation is idempotent per (plan, start slot).
type GeneratorService struct {
	plans        generatorPlanStore
	templates    generatorTemplateStore
	appointments generatorAppointmentStore
	spans        generatorSpanStore
	tx           txProvider
	cache        *CacheService
	metrics      *MetricsService
	validate     *validator.Validate
	logger       *zap.Logger
	cfg          GeneratorConfig
}

// NewGeneratorService constructs a generator service.
func NewGeneratorService(plans generatorPlanStore, templates generatorTemplateStore, appointments generatorAppointmentStore, spans generatorSpanStore, tx txProvider, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg GeneratorConfig) *GeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.EarlyDismissalMinute <= 0 {
		cfg.EarlyDismissalMinute = 16 * 60
	}
	if cfg.StartOfDayOffset == 0 {
		cfg.StartOfDayOffset = time.Hour
	}
	return &GeneratorService{
		plans:        plans,
		templates:    templates,
		appointments: appointments,
		spans:        spans,
		tx:           tx,
		cache:        cache,
		metrics:      metrics,
		validate:     validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// Generate selects the template for the plan and creates one lesson
// appointment per pattern slot per matching day of the plan's time span.
// Re-running against a plan that already owns lesson appointments is
// rejected; individual slot collisions are silently skipped.
func (s *GeneratorService) Generate(ctx context.Context, planID string, req dto.GenerateAppointmentsRequest) (*dto.GenerateAppointmentsResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate request")
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	if plan.TemplateID != nil {
		generated, err := s.appointments.HasLessons(ctx, planID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing appointments")
		}
		if generated {
			return nil, appErrors.Clone(appErrors.ErrConflict, "plan appointments were already generated from a template")
		}
	}

	span, err := s.spans.FindTimeSpan(ctx, plan.TimeSpanID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time span")
	}

	lessons, err := s.plans.ListLessons(ctx, planID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson pattern")
	}

	templateID, exceptions, err := s.resolveTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.plans.SetTemplate(ctx, tx, planID, templateID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record template selection")
	}

	result := &dto.GenerateAppointmentsResult{PlanID: planID}
	if templateID != nil {
		result.TemplateID = *templateID
	}

	for day := span.StartAt; day.Before(span.EndAt); day = day.AddDate(0, 0, 1) {
		pattern := lessonsOn(lessons, day)
		if len(pattern) == 0 {
			continue
		}
		if dayExcluded(exceptions, day) {
			result.SkippedDay++
			continue
		}
		early := isEarlyDay(exceptions, day)

		dayStart := startOfDay(day).Add(s.cfg.StartOfDayOffset)
		for _, lesson := range pattern {
			if early && lesson.EndTime > s.cfg.EarlyDismissalMinute {
				continue
			}
			appt := &models.Appointment{
				PlanID:  planID,
				StartAt: dayStart.Add(time.Duration(lesson.StartTime) * time.Minute),
				EndAt:   dayStart.Add(time.Duration(lesson.EndTime) * time.Minute),
			}
			created, err := s.appointments.CreateLesson(ctx, tx, appt, plan.SubjectID, nil)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson appointment")
			}
			if created {
				result.Created++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit generation")
	}

	s.metrics.RecordGeneration(result.Created, result.SkippedDay)
	if err := s.cache.Invalidate(ctx, topicCachePattern); err != nil {
		s.logger.Debug("segment cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("appointments generated",
		zap.String("plan", planID),
		zap.Stringp("template", templateID),
		zap.Int("created", result.Created),
		zap.Int("skipped_days", result.SkippedDay))
	return result, nil
}

// resolveTemplate maps the synthetic empty template onto a nil selection
// and loads the exceptions of a real one. A vanished template id
// degrades to the empty selection with a warning instead of failing the
// whole run.
func (s *GeneratorService) resolveTemplate(ctx context.Context, templateID string) (*string, []models.TemplateAppointment, error) {
	if templateID == "" || templateID == dto.EmptyTemplateID {
		return nil, nil, nil
	}
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("selected template not found, generating without exceptions", zap.String("template", templateID))
			return nil, nil, nil
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	exceptions, err := s.templates.ListExceptions(ctx, template.ID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template exceptions")
	}
	return &template.ID, exceptions, nil
}

// lessonWeekday maps time.Weekday (Sunday = 0) onto the Monday-indexed
// lesson pattern (0 = Monday .. 5 = Saturday). Sunday yields -1 and
// matches no lesson.
func lessonWeekday(d time.Weekday) int {
	return int(d) - 1
}

func lessonsOn(lessons []models.Lesson, day time.Time) []models.Lesson {
	wd := lessonWeekday(day.Weekday())
	var matched []models.Lesson
	for _, lesson := range lessons {
		if lesson.WeekDay == wd {
			matched = append(matched, lesson)
		}
	}
	return matched
}

// dayExcluded reports whether the day falls strictly inside a blocking
// exception. The comparison is hour-granular and exclusive on both
// bounds, so an exception's first and last day still carry lessons.
func dayExcluded(exceptions []models.TemplateAppointment, day time.Time) bool {
	h := day.Truncate(time.Hour)
	for _, exc := range exceptions {
		switch exc.Kind {
		case models.TemplateKindVacation, models.TemplateKindHoliday, models.TemplateKindEvent:
			if exc.StartAt.Truncate(time.Hour).Before(h) && exc.EndAt.Truncate(time.Hour).After(h) {
				return true
			}
		}
	}
	return false
}

// isEarlyDay reports whether an early-dismissal exception starts on the
// given calendar day.
func isEarlyDay(exceptions []models.TemplateAppointment, day time.Time) bool {
	for _, exc := range exceptions {
		if exc.Kind != models.TemplateKindEarlyDay {
			continue
		}
		ey, em, ed := exc.StartAt.Date()
		dy, dm, dd := day.Date()
		if ey == dy && em == dm && ed == dd {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
