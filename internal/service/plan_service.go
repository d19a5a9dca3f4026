package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

type planStore interface {
	FindByID(ctx context.Context, id string) (*models.Plan, error)
	FindDraft(ctx context.Context) (*models.Plan, error)
	List(ctx context.Context, filter models.PlanFilter) ([]models.PlanSummary, error)
	ListLessons(ctx context.Context, planID string) ([]models.Lesson, error)
	Create(ctx context.Context, exec sqlx.ExtContext, plan *models.Plan, lessons []models.Lesson) error
	Update(ctx context.Context, exec sqlx.ExtContext, plan *models.Plan, lessons []models.Lesson) error
	Finish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type planSubjectStore interface {
	FindSubject(ctx context.Context, id string) (*models.Subject, error)
}

type planCreatorStore interface {
	FindFirstTeacher(ctx context.Context) (*models.Teacher, error)
}

// PlanService manages the plan lifecycle: draft, pattern edits, finish,
// delete. At most one draft exists per creator workflow; the draft is
// the plan the multi-step setup dialog resumes.
type PlanService struct {
	plans    planStore
	subjects planSubjectStore
	teachers planCreatorStore
	tx       txProvider
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPlanService constructs a plan service.
func NewPlanService(plans planStore, subjects planSubjectStore, teachers planCreatorStore, tx txProvider, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		plans:    plans,
		subjects: subjects,
		teachers: teachers,
		tx:       tx,
		validate: validate,
		logger:   logger,
	}
}

// ByID returns one plan with its subject and weekly pattern.
func (s *PlanService) ByID(ctx context.Context, id string) (*dto.PlanDetail, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	return s.detail(ctx, plan)
}

// Draft returns the unfinished plan, or a NotFound error when none
// exists.
func (s *PlanService) Draft(ctx context.Context) (*dto.PlanDetail, error) {
	plan, err := s.plans.FindDraft(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no draft plan")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	return s.detail(ctx, plan)
}

func (s *PlanService) detail(ctx context.Context, plan *models.Plan) (*dto.PlanDetail, error) {
	subject, err := s.subjects.FindSubject(ctx, plan.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	lessons, err := s.plans.ListLessons(ctx, plan.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson pattern")
	}
	return &dto.PlanDetail{Plan: *plan, Subject: *subject, Lessons: lessons}, nil
}

// List returns finished plans for the requested temporal slice.
func (s *PlanService) List(ctx context.Context, filter models.PlanFilter) ([]models.PlanSummary, error) {
	plans, err := s.plans.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}
	return plans, nil
}

// Create starts a new draft plan. The creator is taken from the request
// context when authenticated, otherwise the first known teacher stands
// in.
func (s *PlanService) Create(ctx context.Context, creatorID string, req dto.CreatePlanRequest) (*models.Plan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan request")
	}
	lessons, err := lessonsFromInput(req.Lessons)
	if err != nil {
		return nil, err
	}
	creator, err := s.resolveCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	plan := &models.Plan{
		AreaID:     req.AreaID,
		ClassID:    req.ClassID,
		SubjectID:  req.SubjectID,
		CreatorID:  creator,
		TimeSpanID: req.TimeSpanID,
	}
	if err := s.plans.Create(ctx, tx, plan, lessons); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create plan")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit plan")
	}

	s.logger.Info("plan created", zap.String("plan", plan.ID), zap.Int("lessons", len(lessons)))
	return plan, nil
}

// Update replaces the attributes and pattern of an existing plan.
func (s *PlanService) Update(ctx context.Context, id string, req dto.UpdatePlanRequest) (*models.Plan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan request")
	}
	lessons, err := lessonsFromInput(req.Lessons)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	plan.AreaID = req.AreaID
	plan.ClassID = req.ClassID
	plan.SubjectID = req.SubjectID
	plan.TimeSpanID = req.TimeSpanID
	if err := s.plans.Update(ctx, tx, plan, lessons); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update plan")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit plan update")
	}

	s.logger.Info("plan updated", zap.String("plan", plan.ID), zap.Int("lessons", len(lessons)))
	return plan, nil
}

// Finish marks the draft as complete, making it visible in listings.
func (s *PlanService) Finish(ctx context.Context, id string) error {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if !plan.IsDraft {
		return appErrors.Clone(appErrors.ErrConflict, "plan is already finished")
	}
	if err := s.plans.Finish(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finish plan")
	}
	s.logger.Info("plan finished", zap.String("plan", id))
	return nil
}

// Delete removes a draft plan and everything hanging off it. Finished
// plans are kept; deleting one is rejected.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if !plan.IsDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft plans can be deleted")
	}
	if err := s.plans.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
	}
	s.logger.Info("plan deleted", zap.String("plan", id))
	return nil
}

func (s *PlanService) resolveCreator(ctx context.Context, creatorID string) (string, error) {
	if creatorID != "" {
		return creatorID, nil
	}
	teacher, err := s.teachers.FindFirstTeacher(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrValidation, "no teacher available to own the plan")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve creator")
	}
	return teacher.ID, nil
}

func lessonsFromInput(inputs []dto.LessonInput) ([]models.Lesson, error) {
	lessons := make([]models.Lesson, 0, len(inputs))
	for i, in := range inputs {
		start, err := parseClockTime(in.StartTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lesson %d: %v", i, err))
		}
		end, err := parseClockTime(in.EndTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lesson %d: %v", i, err))
		}
		if end <= start {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lesson %d: end time must be after start time", i))
		}
		lesson := models.Lesson{WeekDay: in.WeekDay, StartTime: start, EndTime: end}
		if in.ID != nil {
			lesson.ID = *in.ID
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// parseClockTime converts "HH:MM" into minutes from midnight.
func parseClockTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}
