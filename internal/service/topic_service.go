package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	"github.com/lernfeld/semesterplan-api/internal/repository"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

const (
	topicCachePattern    = "topics:*"
	topicOverviewKey     = "topics:overview"
	topicPlanKeyTemplate = "topics:plan:%s"
)

// retimeStaging shifts slots far outside any school calendar while a
// move rewrites their times.
const retimeStaging = 100 * 365 * 24 * time.Hour

type slotRetime struct {
	id    string
	start time.Time
	end   time.Time
}

type topicStore interface {
	ListAll(ctx context.Context) ([]models.Topic, error)
	FindByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Topic, error)
	Create(ctx context.Context, exec sqlx.ExtContext, topic *models.Topic) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type topicSlotStore interface {
	ListSlots(ctx context.Context) ([]models.LessonSlot, error)
	ListSlotsByPlan(ctx context.Context, planID string) ([]models.LessonSlot, error)
	ListSlotsFrom(ctx context.Context, exec sqlx.ExtContext, from time.Time) ([]models.LessonSlot, error)
	ListBlockSlots(ctx context.Context, exec sqlx.ExtContext, topicID string, start, end time.Time) ([]models.LessonSlot, error)
	ListUnassignedSlots(ctx context.Context, exec sqlx.ExtContext, planID string, from time.Time, limit int) ([]models.LessonSlot, error)
	AssignTopic(ctx context.Context, exec sqlx.ExtContext, ids []string, topicID *string) error
	ReassignTopic(ctx context.Context, exec sqlx.ExtContext, oldTopicID *string, newTopicID string, scope repository.TopicScopeFilter) (int64, error)
	CountByTopic(ctx context.Context, exec sqlx.ExtContext, topicID string) (int, error)
	CountDistinctTopicsByPlan(ctx context.Context, planID string) (int, error)
	UpdateSlotTime(ctx context.Context, exec sqlx.ExtContext, id string, start, end time.Time) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// TopicService derives topic segments from ordered lesson appointments
// and applies the segment mutations. Segments are never stored; the
// lesson appointments' topic references are the single source of truth.
type TopicService struct {
	topics   topicStore
	slots    topicSlotStore
	tx       txProvider
	cache    *CacheService
	metrics  *MetricsService
	validate *validator.Validate
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewTopicService constructs a topic service.
func NewTopicService(topics topicStore, slots topicSlotStore, tx txProvider, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *TopicService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{
		topics:   topics,
		slots:    slots,
		tx:       tx,
		cache:    cache,
		metrics:  metrics,
		validate: validate,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// All lists every known topic.
func (s *TopicService) All(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.topics.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list topics")
	}
	return topics, nil
}

// Overview returns the segment view across all lesson appointments. The
// bool reports whether the result came from cache.
func (s *TopicService) Overview(ctx context.Context) ([]dto.TopicSegment, bool, error) {
	var cached []dto.TopicSegment
	if hit, err := s.cache.Get(ctx, topicOverviewKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	slots, err := s.slots.ListSlots(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson appointments")
	}
	segments := DeriveSegments(slots)
	if err := s.cache.Set(ctx, topicOverviewKey, segments, s.cacheTTL); err != nil {
		s.logger.Debug("overview cache set failed", zap.Error(err))
	}
	return segments, false, nil
}

// ByPlan returns the segment view of one plan's lesson appointments.
func (s *TopicService) ByPlan(ctx context.Context, planID string) ([]dto.TopicSegment, bool, error) {
	if planID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "plan id is required")
	}
	key := fmt.Sprintf(topicPlanKeyTemplate, planID)

	var cached []dto.TopicSegment
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	slots, err := s.slots.ListSlotsByPlan(ctx, planID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan lesson appointments")
	}
	segments := DeriveSegments(slots)
	if err := s.cache.Set(ctx, key, segments, s.cacheTTL); err != nil {
		s.logger.Debug("plan segment cache set failed", zap.Error(err))
	}
	return segments, false, nil
}

// CountByPlan counts the distinct defined topics inside a plan.
func (s *TopicService) CountByPlan(ctx context.Context, planID string) (int, error) {
	if planID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "plan id is required")
	}
	count, err := s.slots.CountDistinctTopicsByPlan(ctx, planID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count topics")
	}
	return count, nil
}

// Rename points every scoped lesson appointment of one topic at the
// topic named by req.Name, creating it when absent. A source topic left
// without references is removed.
func (s *TopicService) Rename(ctx context.Context, req dto.RenameTopicRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rename request")
	}
	scope, err := scopeFilter(req.Scope)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "topic name must not be blank")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	target, err := findOrCreateTopic(ctx, s.topics, tx, name)
	if err != nil {
		return err
	}
	if req.TopicID != nil && *req.TopicID == target.ID {
		return nil
	}

	affected, err := s.slots.ReassignTopic(ctx, tx, req.TopicID, target.ID, scope)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign topic")
	}

	if req.TopicID != nil {
		remaining, err := s.slots.CountByTopic(ctx, tx, *req.TopicID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count topic references")
		}
		if remaining == 0 {
			if err := s.topics.Delete(ctx, tx, *req.TopicID); err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove orphaned topic")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit rename")
	}

	s.metrics.RecordTopicMutation("rename")
	s.invalidateSegments(ctx)
	s.logger.Info("topic renamed",
		zap.Stringp("from", req.TopicID),
		zap.String("to", target.ID),
		zap.String("scope", string(req.Scope.Type)),
		zap.Int64("appointments", affected))
	return nil
}

// Shorten splits the trailing |Amount| appointments off a topic block
// and hands them to a new or existing topic, or back to "undefined".
func (s *TopicService) Shorten(ctx context.Context, req dto.ShortenTopicRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid shorten request")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	block, err := s.slots.ListBlockSlots(ctx, tx, req.TopicID, req.Start, req.End)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic block")
	}
	if len(block) == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "topic block not found")
	}

	cut := -req.Amount
	if cut < 1 || cut >= len(block) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("shorten amount must remove between 1 and %d appointments", len(block)-1))
	}

	var successor *string
	if req.NewName != nil {
		if name := strings.TrimSpace(*req.NewName); name != "" {
			topic, err := findOrCreateTopic(ctx, s.topics, tx, name)
			if err != nil {
				return err
			}
			successor = &topic.ID
		}
	}

	tail := block[len(block)-cut:]
	ids := make([]string, 0, len(tail))
	for _, slot := range tail {
		ids = append(ids, slot.ID)
	}
	if err := s.slots.AssignTopic(ctx, tx, ids, successor); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign block tail")
	}

	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit shorten")
	}

	s.metrics.RecordTopicMutation("shorten")
	s.invalidateSegments(ctx)
	s.logger.Info("topic block shortened",
		zap.String("topic", req.TopicID),
		zap.Int("cut", cut),
		zap.Stringp("successor", successor))
	return nil
}

// Move swaps two segments in the calendar. Slot identities travel, slot
// times stay put: after the swap the original window's times are written
// back onto the reassembled order position by position.
func (s *TopicService) Move(ctx context.Context, req dto.MoveTopicRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move request")
	}

	windowStart := req.From.Start
	if req.To.Start.Before(windowStart) {
		windowStart = req.To.Start
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	window, err := s.slots.ListSlotsFrom(ctx, tx, windowStart)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load move window")
	}

	reordered, err := reorderWindow(window, req.From, req.To)
	if err != nil {
		switch {
		case errors.Is(err, errSegmentNotFound):
			return appErrors.Clone(appErrors.ErrNotFound, "segment not found")
		case errors.Is(err, errSpansOverlap):
			return appErrors.Clone(appErrors.ErrValidation, "segments overlap or coincide")
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reorder segments")
		}
	}

	var changes []slotRetime
	for i := range reordered {
		if reordered[i].ID == window[i].ID && slotTimesEqual(reordered[i], window[i].StartAt, window[i].EndAt) {
			continue
		}
		changes = append(changes, slotRetime{id: reordered[i].ID, start: window[i].StartAt, end: window[i].EndAt})
	}

	// The slot uniqueness constraint is checked per statement, so writing
	// final times directly would collide with same-plan rows that have not
	// moved yet. Vacate every changed slot into a staging window first.
	for _, ch := range changes {
		if err := s.slots.UpdateSlotTime(ctx, tx, ch.id, ch.start.Add(-retimeStaging), ch.end.Add(-retimeStaging)); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stage appointment retime")
		}
	}
	for _, ch := range changes {
		if err := s.slots.UpdateSlotTime(ctx, tx, ch.id, ch.start, ch.end); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to retime appointment")
		}
	}

	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit move")
	}

	s.metrics.RecordTopicMutation("move")
	s.invalidateSegments(ctx)
	s.logger.Info("topic segment moved",
		zap.String("from", req.From.TopicID),
		zap.String("to", req.To.TopicID),
		zap.Int("window", len(window)))
	return nil
}

// Append assigns a topic to the first Duration appointments of a plan's
// trailing undefined run, starting at req.Start.
func (s *TopicService) Append(ctx context.Context, req dto.AppendTopicRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid append request")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	topicID, err := s.resolveTopic(ctx, tx, req.TopicID, req.Name)
	if err != nil {
		return err
	}

	slots, err := s.slots.ListUnassignedSlots(ctx, tx, req.PlanID, req.Start, req.Duration)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load undefined appointments")
	}
	if len(slots) < req.Duration {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("plan has only %d undefined appointments from the given start", len(slots)))
	}

	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}
	if err := s.slots.AssignTopic(ctx, tx, ids, &topicID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign topic")
	}

	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit append")
	}

	s.metrics.RecordTopicMutation("append")
	s.invalidateSegments(ctx)
	s.logger.Info("topic appended",
		zap.String("plan", req.PlanID),
		zap.String("topic", topicID),
		zap.Int("duration", req.Duration))
	return nil
}

// resolveTopic returns an existing topic id or finds or creates one by
// name. Exactly one of the two inputs must be set.
func (s *TopicService) resolveTopic(ctx context.Context, exec sqlx.ExtContext, topicID, name *string) (string, error) {
	switch {
	case topicID != nil && *topicID != "":
		return *topicID, nil
	case name != nil && strings.TrimSpace(*name) != "":
		topic, err := findOrCreateTopic(ctx, s.topics, exec, strings.TrimSpace(*name))
		if err != nil {
			return "", err
		}
		return topic.ID, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "either topic id or topic name is required")
	}
}

// findOrCreateTopic resolves a topic by exact name, creating it when
// absent. Called inside the mutation's transaction so a failed mutation
// leaves no stray topic behind.
func findOrCreateTopic(ctx context.Context, topics topicStore, exec sqlx.ExtContext, name string) (*models.Topic, error) {
	topic, err := topics.FindByName(ctx, exec, name)
	if err == nil {
		return topic, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up topic")
	}
	created := &models.Topic{Name: name}
	if err := topics.Create(ctx, exec, created); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create topic")
	}
	return created, nil
}

func (s *TopicService) invalidateSegments(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, topicCachePattern); err != nil {
		s.logger.Debug("segment cache invalidation failed", zap.Error(err))
	}
}

// scopeFilter translates a rename scope into the repository filter and
// enforces the per-scope parameter requirements.
func scopeFilter(scope dto.RenameScope) (repository.TopicScopeFilter, error) {
	switch scope.Type {
	case models.RenameScopeAll:
		return repository.TopicScopeFilter{}, nil
	case models.RenameScopePlan:
		if scope.PlanID == "" {
			return repository.TopicScopeFilter{}, appErrors.Clone(appErrors.ErrValidation, "plan scope requires a plan id")
		}
		return repository.TopicScopeFilter{PlanID: scope.PlanID}, nil
	case models.RenameScopeBlock:
		if scope.Start == nil || scope.End == nil {
			return repository.TopicScopeFilter{}, appErrors.Clone(appErrors.ErrValidation, "block scope requires start and end")
		}
		return repository.TopicScopeFilter{Start: scope.Start, End: scope.End}, nil
	default:
		return repository.TopicScopeFilter{}, appErrors.Clone(appErrors.ErrValidation, "unknown rename scope")
	}
}
