package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

func newAppointmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func lessonSlotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "plan_id", "start_at", "end_at", "topic_id", "topic_name"})
}

func TestAppointmentRepositoryCreateLesson(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs(sqlmock.AnyArg(), "plan-1", "lesson", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("appt-1"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lesson_appointments (id, subject_id, topic_id)")).
		WithArgs(sqlmock.AnyArg(), "subject-1", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	appt := &models.Appointment{
		PlanID:  "plan-1",
		StartAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	}
	created, err := repo.CreateLesson(context.Background(), nil, appt, "subject-1", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.AppointmentTypeLesson, appt.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCreateLessonSlotTaken(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	// ON CONFLICT DO NOTHING yields no row; the payload insert must not run
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs(sqlmock.AnyArg(), "plan-1", "lesson", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	appt := &models.Appointment{
		PlanID:  "plan-1",
		StartAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	}
	created, err := repo.CreateLesson(context.Background(), nil, appt, "subject-1", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryHasLessons(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("plan-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	has, err := repo.HasLessons(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestAppointmentRepositoryListBlockSlots(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC)
	rows := lessonSlotRows().
		AddRow("appt-1", "plan-1", start, start.Add(90*time.Minute), "t1", "Genetics").
		AddRow("appt-2", "plan-1", start.AddDate(0, 0, 2), start.AddDate(0, 0, 2).Add(90*time.Minute), "t1", "Genetics")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE la.topic_id = $1 AND a.start_at >= $2 AND a.end_at <= $3")).
		WithArgs("t1", start, end).
		WillReturnRows(rows)

	slots, err := repo.ListBlockSlots(context.Background(), nil, "t1", start, end)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "appt-1", slots[0].ID)
	require.NotNil(t, slots[0].TopicID)
	assert.Equal(t, "t1", *slots[0].TopicID)
}

func TestAppointmentRepositoryListUnassignedSlots(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := lessonSlotRows().
		AddRow("appt-9", "plan-1", from.Add(9*time.Hour), from.Add(10*time.Hour), nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.plan_id = $1 AND la.topic_id IS NULL AND a.start_at >= $2")).
		WithArgs("plan-1", from, 3).
		WillReturnRows(rows)

	slots, err := repo.ListUnassignedSlots(context.Background(), nil, "plan-1", from, 3)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Nil(t, slots[0].TopicID)
}

func TestAppointmentRepositoryAssignTopic(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	topicID := "t2"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lesson_appointments SET topic_id = $1 WHERE id = ANY($2)")).
		WithArgs("t2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.AssignTopic(context.Background(), nil, []string{"appt-1", "appt-2"}, &topicID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryAssignTopicNoIDs(t *testing.T) {
	db, _, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	require.NoError(t, repo.AssignTopic(context.Background(), nil, nil, nil))
}

func TestAppointmentRepositoryReassignTopicFromUndefined(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("la.topic_id IS NULL AND a.plan_id = $2")).
		WithArgs("t1", "plan-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	affected, err := repo.ReassignTopic(context.Background(), nil, nil, "t1", TopicScopeFilter{PlanID: "plan-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), affected)
}

func TestAppointmentRepositoryReassignTopicBlockScope(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	start := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC)
	oldTopic := "t1"

	mock.ExpectExec(regexp.QuoteMeta("la.topic_id = $2 AND a.start_at >= $3 AND a.end_at <= $4")).
		WithArgs("t2", "t1", start, end).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.ReassignTopic(context.Background(), nil, &oldTopic, "t2", TopicScopeFilter{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestAppointmentRepositoryUpdateSlotTime(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	start := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET start_at = $2, end_at = $3 WHERE id = $1")).
		WithArgs("appt-1", start, end).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSlotTime(context.Background(), nil, "appt-1", start, end))
}

func TestAppointmentRepositoryCountDistinctTopicsByPlan(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT la.topic_id)")).
		WithArgs("plan-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountDistinctTopicsByPlan(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
