package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

type appointmentStore interface {
	ListRows(ctx context.Context, filter models.AppointmentFilter) ([]models.AppointmentRow, error)
	CreateLesson(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment, subjectID string, topicID *string) (bool, error)
	CreateEvent(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment, payload models.EventAppointment) error
	CreateExcursion(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment, payload models.ExcursionAppointment) error
}

type appointmentPlanStore interface {
	FindByID(ctx context.Context, id string) (*models.Plan, error)
}

// AppointmentService serves the typed appointment listings and single
// creates outside the generator.
type AppointmentService struct {
	appointments appointmentStore
	plans        appointmentPlanStore
	topics       topicStore
	tx           txProvider
	cache        *CacheService
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewAppointmentService constructs an appointment service.
func NewAppointmentService(appointments appointmentStore, plans appointmentPlanStore, topics topicStore, tx txProvider, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{
		appointments: appointments,
		plans:        plans,
		topics:       topics,
		tx:           tx,
		cache:        cache,
		validate:     validate,
		logger:       logger,
	}
}

// List returns appointments matching the filter, ordered by start, each
// carrying the payload of its type.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter) ([]dto.AppointmentView, error) {
	rows, err := s.appointments.ListRows(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	views := make([]dto.AppointmentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, viewFromRow(row))
	}
	return views, nil
}

// Create inserts one appointment of the requested type. Lessons may name
// an existing topic or a topic name that is created on the fly.
func (s *AppointmentService) Create(ctx context.Context, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment request")
	}
	if !req.End.After(req.Start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must be after start")
	}

	plan, err := s.plans.FindByID(ctx, req.PlanID)
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

	appt := &models.Appointment{PlanID: plan.ID, StartAt: req.Start, EndAt: req.End}

	switch req.Type {
	case models.AppointmentTypeLesson:
		topicID, err := s.lessonTopic(ctx, tx, req)
		if err != nil {
			return nil, err
		}
		created, err := s.appointments.CreateLesson(ctx, tx, appt, plan.SubjectID, topicID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
		}
		if !created {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an appointment already occupies this slot")
		}
	case models.AppointmentTypeEvent:
		if strings.TrimSpace(req.Name) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "event name is required")
		}
		payload := models.EventAppointment{Name: req.Name, Description: req.Description}
		if err := s.appointments.CreateEvent(ctx, tx, appt, payload); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "failed to create event")
		}
	case models.AppointmentTypeExcursion:
		if strings.TrimSpace(req.Name) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "excursion name is required")
		}
		payload := models.ExcursionAppointment{Name: req.Name, Description: req.Description, Location: req.Location}
		if err := s.appointments.CreateExcursion(ctx, tx, appt, payload); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "failed to create excursion")
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown appointment type")
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit appointment")
	}

	if err := s.cache.Invalidate(ctx, topicCachePattern); err != nil {
		s.logger.Debug("segment cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("appointment created",
		zap.String("plan", plan.ID),
		zap.String("type", string(req.Type)),
		zap.Time("start", appt.StartAt))
	return appt, nil
}

// lessonTopic resolves the optional topic of a manually created lesson.
// Both inputs absent means the lesson starts undefined.
func (s *AppointmentService) lessonTopic(ctx context.Context, exec sqlx.ExtContext, req dto.CreateAppointmentRequest) (*string, error) {
	if req.TopicID != nil && *req.TopicID != "" {
		return req.TopicID, nil
	}
	if req.TopicName != nil && strings.TrimSpace(*req.TopicName) != "" {
		topic, err := findOrCreateTopic(ctx, s.topics, exec, strings.TrimSpace(*req.TopicName))
		if err != nil {
			return nil, err
		}
		return &topic.ID, nil
	}
	return nil, nil
}

func viewFromRow(row models.AppointmentRow) dto.AppointmentView {
	view := dto.AppointmentView{
		ID:    row.ID,
		Type:  row.Type,
		Start: row.StartAt,
		End:   row.EndAt,
	}
	switch row.Type {
	case models.AppointmentTypeLesson:
		view.Lesson = &dto.LessonData{
			Subject: dto.SubjectRef{ID: deref(row.SubjectID), Name: deref(row.SubjectName)},
			Topic:   dto.TopicRef{ID: row.TopicID, Name: row.TopicName},
		}
	case models.AppointmentTypeEvent:
		view.Event = &dto.EventData{Name: deref(row.EventName), Description: deref(row.EventDesc)}
	case models.AppointmentTypeExcursion:
		view.Excursion = &dto.ExcursionData{
			Name:        deref(row.ExcursionName),
			Description: deref(row.ExcursionDesc),
			Location:    deref(row.ExcursionPlace),
		}
	}
	return view
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
