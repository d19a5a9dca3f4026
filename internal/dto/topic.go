package dto

import (
	"time"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

// TopicSegment is a maximal run of consecutive lesson appointments
// sharing one topic, ordered by start. Segments are derived on read and
// never persisted; ID is synthetic and stable only within one response.
type TopicSegment struct {
	ID       string    `json:"id"`
	TopicID  *string   `json:"topic_id"`
	Name     *string   `json:"name"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int       `json:"duration"`
}

// RenameScope restricts which lesson appointments a rename touches.
type RenameScope struct {
	Type   models.RenameScopeType `json:"type" validate:"required,oneof=all plan block"`
	PlanID string                 `json:"plan_id,omitempty"`
	Start  *time.Time             `json:"start,omitempty"`
	End    *time.Time             `json:"end,omitempty"`
}

// RenameTopicRequest renames a topic run. A nil TopicID means the run of
// appointments without a topic.
type RenameTopicRequest struct {
	TopicID *string     `json:"id"`
	Name    string      `json:"name" validate:"required"`
	Scope   RenameScope `json:"scope" validate:"required"`
}

// ShortenTopicRequest splits the trailing |Amount| appointments off a
// topic block. Amount is negative, matching the client contract.
type ShortenTopicRequest struct {
	TopicID string    `json:"topic_id" validate:"required"`
	Start   time.Time `json:"start" validate:"required"`
	End     time.Time `json:"end" validate:"required"`
	Amount  int       `json:"amount" validate:"required,lt=0"`
	NewName *string   `json:"new_name"`
}

// SegmentRef identifies one segment for a move.
type SegmentRef struct {
	TopicID string    `json:"id" validate:"required"`
	Start   time.Time `json:"start" validate:"required"`
	End     time.Time `json:"end" validate:"required"`
}

// MoveTopicRequest swaps the positions of two segments.
type MoveTopicRequest struct {
	From SegmentRef `json:"from" validate:"required"`
	To   SegmentRef `json:"to" validate:"required"`
}

// AppendTopicRequest assigns a topic to the leading lessons of the
// plan's trailing undefined run. Exactly one of TopicID / Name is set.
type AppendTopicRequest struct {
	PlanID   string    `json:"plan_id" validate:"required"`
	TopicID  *string   `json:"topic_id"`
	Name     *string   `json:"name"`
	Duration int       `json:"duration" validate:"required,gte=1"`
	Start    time.Time `json:"start" validate:"required"`
}
