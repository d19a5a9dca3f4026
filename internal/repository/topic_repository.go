package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lernfeld/semesterplan-api/internal/models"
)

// TopicRepository persists curriculum topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository constructs a topic repository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

func (r *TopicRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListAll returns every topic ordered by name.
func (r *TopicRepository) ListAll(ctx context.Context) ([]models.Topic, error) {
	const query = `SELECT id, name, created_at FROM topics ORDER BY name ASC`
	var topics []models.Topic
	if err := r.db.SelectContext(ctx, &topics, query); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// FindByID fetches a single topic.
func (r *TopicRepository) FindByID(ctx context.Context, id string) (*models.Topic, error) {
	const query = `SELECT id, name, created_at FROM topics WHERE id = $1`
	var topic models.Topic
	if err := r.db.GetContext(ctx, &topic, query, id); err != nil {
		return nil, err
	}
	return &topic, nil
}

// FindByName returns the oldest topic with an exact name match. Duplicate
// names are allowed by the schema; first match wins.
func (r *TopicRepository) FindByName(ctx context.Context, exec sqlx.ExtContext, name string) (*models.Topic, error) {
	const query = `SELECT id, name, created_at FROM topics WHERE name = $1 ORDER BY created_at ASC, id ASC LIMIT 1`
	var topic models.Topic
	if err := sqlx.GetContext(ctx, r.queryer(exec), &topic, query, name); err != nil {
		return nil, err
	}
	return &topic, nil
}

// Create inserts a topic.
func (r *TopicRepository) Create(ctx context.Context, exec sqlx.ExtContext, topic *models.Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO topics (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, topic); err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// Delete removes a topic row.
func (r *TopicRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	if _, err := r.exec(exec).ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}

func (r *TopicRepository) queryer(exec sqlx.ExtContext) sqlx.QueryerContext {
	if exec != nil {
		return exec
	}
	return r.db
}
