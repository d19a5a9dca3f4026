package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
)

func strPtr(s string) *string { return &s }

func slotAt(id string, topicID *string, day int) models.LessonSlot {
	start := time.Date(2026, 3, day, 9, 0, 0, 0, time.UTC)
	return models.LessonSlot{
		ID:      id,
		PlanID:  "plan-1",
		StartAt: start,
		EndAt:   start.Add(90 * time.Minute),
		TopicID: topicID,
	}
}

func TestDeriveSegmentsCollapsesRuns(t *testing.T) {
	t1 := strPtr("t1")
	t2 := strPtr("t2")
	slots := []models.LessonSlot{
		slotAt("a", t1, 2),
		slotAt("b", t1, 3),
		slotAt("c", t2, 4),
		slotAt("d", t1, 5),
	}

	segments := DeriveSegments(slots)
	require.Len(t, segments, 3)

	assert.Equal(t, "t1", *segments[0].TopicID)
	assert.Equal(t, 2, segments[0].Duration)
	assert.Equal(t, slots[0].StartAt, segments[0].Start)
	assert.Equal(t, slots[1].EndAt, segments[0].End)

	assert.Equal(t, "t2", *segments[1].TopicID)
	assert.Equal(t, 1, segments[1].Duration)

	// same topic again after a gap starts a new run
	assert.Equal(t, "t1", *segments[2].TopicID)
	assert.Equal(t, 1, segments[2].Duration)
}

func TestDeriveSegmentsCollapsesUndefinedRuns(t *testing.T) {
	slots := []models.LessonSlot{
		slotAt("a", nil, 2),
		slotAt("b", nil, 3),
		slotAt("c", strPtr("t1"), 4),
		slotAt("d", nil, 5),
	}

	segments := DeriveSegments(slots)
	require.Len(t, segments, 3)

	assert.Nil(t, segments[0].TopicID)
	assert.Equal(t, 2, segments[0].Duration)
	assert.Nil(t, segments[2].TopicID)
	assert.Equal(t, 1, segments[2].Duration)
}

func TestDeriveSegmentsPartitionsSlots(t *testing.T) {
	t1 := strPtr("t1")
	slots := []models.LessonSlot{
		slotAt("a", nil, 2),
		slotAt("b", t1, 3),
		slotAt("c", t1, 4),
		slotAt("d", nil, 5),
		slotAt("e", nil, 6),
	}

	segments := DeriveSegments(slots)
	total := 0
	for _, seg := range segments {
		total += seg.Duration
	}
	assert.Equal(t, len(slots), total)
	assert.Equal(t, slots[0].StartAt, segments[0].Start)
	assert.Equal(t, slots[len(slots)-1].EndAt, segments[len(segments)-1].End)
}

func TestDeriveSegmentsEmpty(t *testing.T) {
	assert.Empty(t, DeriveSegments(nil))
}

func refFor(slots []models.LessonSlot, topicID string, first, last int) dto.SegmentRef {
	return dto.SegmentRef{
		TopicID: topicID,
		Start:   slots[first].StartAt,
		End:     slots[last].EndAt,
	}
}

func TestReorderWindowSwapsAdjacentSegments(t *testing.T) {
	t1 := strPtr("t1")
	t2 := strPtr("t2")
	window := []models.LessonSlot{
		slotAt("a1", t1, 2),
		slotAt("a2", t1, 3),
		slotAt("a3", t1, 4),
		slotAt("b1", t2, 5),
		slotAt("b2", t2, 6),
	}

	reordered, err := reorderWindow(window, refFor(window, "t1", 0, 2), refFor(window, "t2", 3, 4))
	require.NoError(t, err)
	require.Len(t, reordered, len(window))

	ids := make([]string, 0, len(reordered))
	for _, slot := range reordered {
		ids = append(ids, slot.ID)
	}
	assert.Equal(t, []string{"b1", "b2", "a1", "a2", "a3"}, ids)
}

func TestReorderWindowKeepsBetweenAdjacent(t *testing.T) {
	t1 := strPtr("t1")
	t2 := strPtr("t2")
	t3 := strPtr("t3")
	window := []models.LessonSlot{
		slotAt("a1", t1, 2),
		slotAt("a2", t1, 3),
		slotAt("c1", t3, 4),
		slotAt("c2", t3, 5),
		slotAt("b1", t2, 6),
		slotAt("b2", t2, 7),
		slotAt("b3", t2, 8),
	}

	reordered, err := reorderWindow(window, refFor(window, "t1", 0, 1), refFor(window, "t2", 4, 6))
	require.NoError(t, err)

	ids := make([]string, 0, len(reordered))
	for _, slot := range reordered {
		ids = append(ids, slot.ID)
	}
	assert.Equal(t, []string{"c1", "c2", "b1", "b2", "b3", "a1", "a2"}, ids)
}

func TestReorderWindowBackwardMove(t *testing.T) {
	t1 := strPtr("t1")
	t2 := strPtr("t2")
	window := []models.LessonSlot{
		slotAt("a1", t1, 2),
		slotAt("a2", t1, 3),
		slotAt("b1", t2, 4),
		slotAt("b2", t2, 5),
	}

	// from is the later segment; target is the earlier one
	reordered, err := reorderWindow(window, refFor(window, "t2", 2, 3), refFor(window, "t1", 0, 1))
	require.NoError(t, err)

	ids := make([]string, 0, len(reordered))
	for _, slot := range reordered {
		ids = append(ids, slot.ID)
	}
	assert.Equal(t, []string{"b1", "b2", "a1", "a2"}, ids)
}

func TestReorderWindowPreservesSlotSet(t *testing.T) {
	t1 := strPtr("t1")
	t2 := strPtr("t2")
	window := []models.LessonSlot{
		slotAt("a1", t1, 2),
		slotAt("x1", nil, 3),
		slotAt("b1", t2, 4),
		slotAt("b2", t2, 5),
		slotAt("x2", nil, 6),
	}

	reordered, err := reorderWindow(window, refFor(window, "t1", 0, 0), refFor(window, "t2", 2, 3))
	require.NoError(t, err)
	require.Len(t, reordered, len(window))

	seen := map[string]int{}
	for _, slot := range reordered {
		seen[slot.ID]++
	}
	for _, slot := range window {
		assert.Equal(t, 1, seen[slot.ID], "slot %s must appear exactly once", slot.ID)
	}
}

func TestReorderWindowUnequalLengths(t *testing.T) {
	t1 := strPtr("t1")
	t2 := strPtr("t2")
	window := []models.LessonSlot{
		slotAt("a1", t1, 2),
		slotAt("b1", t2, 3),
		slotAt("b2", t2, 4),
		slotAt("b3", t2, 5),
	}

	reordered, err := reorderWindow(window, refFor(window, "t1", 0, 0), refFor(window, "t2", 1, 3))
	require.NoError(t, err)

	ids := make([]string, 0, len(reordered))
	for _, slot := range reordered {
		ids = append(ids, slot.ID)
	}
	assert.Equal(t, []string{"b1", "b2", "b3", "a1"}, ids)
}

func TestReorderWindowRejectsUnknownSegment(t *testing.T) {
	t1 := strPtr("t1")
	window := []models.LessonSlot{slotAt("a1", t1, 2)}

	_, err := reorderWindow(window, refFor(window, "missing", 0, 0), refFor(window, "t1", 0, 0))
	assert.ErrorIs(t, err, errSegmentNotFound)
}

func TestReorderWindowRejectsCoincidingSegments(t *testing.T) {
	t1 := strPtr("t1")
	window := []models.LessonSlot{
		slotAt("a1", t1, 2),
		slotAt("a2", t1, 3),
	}

	ref := refFor(window, "t1", 0, 1)
	_, err := reorderWindow(window, ref, ref)
	assert.ErrorIs(t, err, errSpansOverlap)
}

func TestReorderWindowRejectsOverlappingBounds(t *testing.T) {
	t1 := strPtr("t1")
	t2 := strPtr("t2")
	window := []models.LessonSlot{
		slotAt("a1", t1, 2),
		slotAt("a2", t1, 3),
		slotAt("b1", t2, 4),
	}

	// from bounds stretched to swallow the to segment's slot range
	from := dto.SegmentRef{TopicID: "t1", Start: window[0].StartAt, End: window[2].EndAt}
	to := dto.SegmentRef{TopicID: "t1", Start: window[1].StartAt, End: window[2].EndAt}
	_, err := reorderWindow(window, from, to)
	assert.ErrorIs(t, err, errSpansOverlap)
}
