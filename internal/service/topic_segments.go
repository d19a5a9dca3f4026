package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
)

var (
	errSegmentNotFound = errors.New("segment not found in window")
	errSpansOverlap    = errors.New("segments overlap")
	errBadReassembly   = errors.New("reassembled window does not partition the original")
)

// DeriveSegments collapses an ordered slice of lesson slots into maximal
// runs of consecutive slots sharing one topic. A nil topic id is a valid
// run value ("undefined topic"), so the first slot is detected with a
// presence flag rather than a nil comparison.
func DeriveSegments(slots []models.LessonSlot) []dto.TopicSegment {
	segments := make([]dto.TopicSegment, 0, len(slots))
	open := false
	var runTopic *string

	for _, slot := range slots {
		if open && sameTopic(runTopic, slot.TopicID) {
			last := &segments[len(segments)-1]
			last.Duration++
			last.End = slot.EndAt
			continue
		}

		segments = append(segments, dto.TopicSegment{
			ID:       uuid.NewString(),
			TopicID:  slot.TopicID,
			Name:     slot.TopicName,
			Start:    slot.StartAt,
			End:      slot.EndAt,
			Duration: 1,
		})
		open = true
		runTopic = slot.TopicID
	}

	return segments
}

func sameTopic(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// reorderWindow swaps the positions of the from and to segments inside
// the start-ordered window and returns the reassembled identity order.
// Slot times are untouched; the caller writes the original window's
// times back onto the reassembled order position by position.
//
// The span physically earlier in the window is deliberately selected
// with the filter of the logically later parameter; this inversion is
// part of the contract, not an accident.
func reorderWindow(window []models.LessonSlot, from, to dto.SegmentRef) ([]models.LessonSlot, error) {
	toIndex := segmentIndex(window, to)
	fromIndex := segmentIndex(window, from)
	if toIndex < 0 || fromIndex < 0 {
		return nil, errSegmentNotFound
	}
	if fromIndex == toIndex {
		return nil, errSpansOverlap
	}

	fromRef, toRef := to, from
	if fromIndex > toIndex {
		fromRef, toRef = from, to
	}

	fromSpan := segmentSlots(window, fromRef)
	toSpan := segmentSlots(window, toRef)
	if len(fromSpan) == 0 || len(toSpan) == 0 {
		return nil, errSegmentNotFound
	}
	if spansIntersect(fromSpan, toSpan) {
		return nil, errSpansOverlap
	}

	spanAtTo, spanAtFrom := fromSpan, fromSpan
	if fromIndex > toIndex {
		spanAtTo = toSpan
	} else {
		spanAtFrom = toSpan
	}

	lower := minInt(toIndex, fromIndex)
	upper := maxInt(toIndex, fromIndex)
	innerLow := minInt(toIndex+len(spanAtTo), fromIndex+len(spanAtFrom))
	innerHigh := maxInt(toIndex+len(spanAtTo), fromIndex+len(spanAtFrom))
	if innerLow > upper || innerHigh > len(window) {
		return nil, errSpansOverlap
	}

	before := window[:lower]
	between := window[innerLow:upper]
	after := window[innerHigh:]

	reordered := make([]models.LessonSlot, 0, len(window))
	reordered = append(reordered, before...)
	if fromIndex < toIndex {
		reordered = append(reordered, between...)
	}
	reordered = append(reordered, fromSpan...)
	reordered = append(reordered, toSpan...)
	if fromIndex > toIndex {
		reordered = append(reordered, between...)
	}
	reordered = append(reordered, after...)

	if len(reordered) != len(window) {
		return nil, fmt.Errorf("%w: %d slots in, %d out", errBadReassembly, len(window), len(reordered))
	}
	return reordered, nil
}

// segmentIndex locates the first slot at or after the reference start
// carrying the reference topic.
func segmentIndex(window []models.LessonSlot, ref dto.SegmentRef) int {
	for i, slot := range window {
		if !slot.StartAt.Before(ref.Start) && slotHasTopic(slot, ref.TopicID) {
			return i
		}
	}
	return -1
}

// segmentSlots collects the slots of one segment: matching topic, start
// and end inside the segment's own bounds.
func segmentSlots(window []models.LessonSlot, ref dto.SegmentRef) []models.LessonSlot {
	var span []models.LessonSlot
	for _, slot := range window {
		if !slot.StartAt.Before(ref.Start) && !slot.EndAt.After(ref.End) && slotHasTopic(slot, ref.TopicID) {
			span = append(span, slot)
		}
	}
	return span
}

func slotHasTopic(slot models.LessonSlot, topicID string) bool {
	return slot.TopicID != nil && *slot.TopicID == topicID
}

func spansIntersect(a, b []models.LessonSlot) bool {
	ids := make(map[string]struct{}, len(a))
	for _, slot := range a {
		ids[slot.ID] = struct{}{}
	}
	for _, slot := range b {
		if _, ok := ids[slot.ID]; ok {
			return true
		}
	}
	return false
}

// slotTimesEqual reports whether a reassigned slot already occupies the
// target slot time, allowing the writeback loop to skip no-op updates.
func slotTimesEqual(a models.LessonSlot, start, end time.Time) bool {
	return a.StartAt.Equal(start) && a.EndAt.Equal(end)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
