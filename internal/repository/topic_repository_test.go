package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

func newTopicRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTopicRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newTopicRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow("t1", "Evolution", time.Now()).
		AddRow("t2", "Genetics", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_at FROM topics ORDER BY name ASC")).
		WillReturnRows(rows)

	topics, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Evolution", topics[0].Name)
}

func TestTopicRepositoryFindByName(t *testing.T) {
	db, mock, cleanup := newTopicRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow("t1", "Genetics", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM topics WHERE name = $1 ORDER BY created_at ASC, id ASC LIMIT 1")).
		WithArgs("Genetics").
		WillReturnRows(rows)

	topic, err := repo.FindByName(context.Background(), nil, "Genetics")
	require.NoError(t, err)
	assert.Equal(t, "t1", topic.ID)
}

func TestTopicRepositoryFindByNameMissing(t *testing.T) {
	db, mock, cleanup := newTopicRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM topics WHERE name = $1")).
		WithArgs("Ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), nil, "Ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTopicRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newTopicRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO topics")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	topic := &models.Topic{Name: "Genetics"}
	require.NoError(t, repo.Create(context.Background(), nil, topic))
	assert.NotEmpty(t, topic.ID)
	assert.False(t, topic.CreatedAt.IsZero())
}

func TestTopicRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newTopicRepoMock(t)
	defer cleanup()
	repo := NewTopicRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM topics WHERE id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), nil, "t1"))
}
