package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
	"github.com/lernfeld/semesterplan-api/pkg/response"
)

type topicServiceMock struct {
	segments  []dto.TopicSegment
	cacheHit  bool
	mutateErr error

	renamed   []dto.RenameTopicRequest
	shortened []dto.ShortenTopicRequest
	moved     []dto.MoveTopicRequest
	appended  []dto.AppendTopicRequest
}

func (m *topicServiceMock) All(context.Context) ([]models.Topic, error) {
	return nil, nil
}

func (m *topicServiceMock) Overview(context.Context) ([]dto.TopicSegment, bool, error) {
	return m.segments, m.cacheHit, nil
}

func (m *topicServiceMock) ByPlan(context.Context, string) ([]dto.TopicSegment, bool, error) {
	return m.segments, m.cacheHit, nil
}

func (m *topicServiceMock) CountByPlan(context.Context, string) (int, error) {
	return 3, nil
}

func (m *topicServiceMock) Rename(_ context.Context, req dto.RenameTopicRequest) error {
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.renamed = append(m.renamed, req)
	return nil
}

func (m *topicServiceMock) Shorten(_ context.Context, req dto.ShortenTopicRequest) error {
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.shortened = append(m.shortened, req)
	return nil
}

func (m *topicServiceMock) Move(_ context.Context, req dto.MoveTopicRequest) error {
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.moved = append(m.moved, req)
	return nil
}

func (m *topicServiceMock) Append(_ context.Context, req dto.AppendTopicRequest) error {
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.appended = append(m.appended, req)
	return nil
}

func postJSON(c *gin.Context, path, body string) {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
}

func TestTopicHandlerOverviewReportsCacheMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	name := "Genetics"
	topicID := "t1"
	svc := &topicServiceMock{
		cacheHit: true,
		segments: []dto.TopicSegment{{
			ID:       "t1-0",
			TopicID:  &topicID,
			Name:     &name,
			Start:    time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
			End:      time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC),
			Duration: 3,
		}},
	}
	handler := NewTopicHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/topics/overview", nil)
	c.Request = req

	handler.Overview(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestTopicHandlerCountByPlan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTopicHandler(&topicServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/plans/plan-1/topics/count", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "plan-1"}}

	handler.CountByPlan(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":3`)
}

func TestTopicHandlerRename(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &topicServiceMock{}
	handler := NewTopicHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/topics/rename", `{"id":"t1","name":"Cell biology","scope":{"type":"all"}}`)

	handler.Rename(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.renamed, 1)
	assert.Equal(t, "Cell biology", svc.renamed[0].Name)
	require.NotNil(t, svc.renamed[0].TopicID)
	assert.Equal(t, "t1", *svc.renamed[0].TopicID)
	assert.Contains(t, w.Body.String(), `"renamed":true`)
}

func TestTopicHandlerRenameMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTopicHandler(&topicServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/topics/rename", `{"name":`)

	handler.Rename(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTopicHandlerShorten(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &topicServiceMock{}
	handler := NewTopicHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/topics/shorten", `{"topic_id":"t1","start":"2026-03-02T09:30:00Z","end":"2026-03-09T11:00:00Z","amount":-2,"new_name":"Follow-up"}`)

	handler.Shorten(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.shortened, 1)
	assert.Equal(t, -2, svc.shortened[0].Amount)
}

func TestTopicHandlerMoveMapsValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &topicServiceMock{mutateErr: appErrors.Clone(appErrors.ErrValidation, "segments overlap or coincide")}
	handler := NewTopicHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/topics/move", `{"from":{"id":"t1","start":"2026-03-02T09:30:00Z","end":"2026-03-04T11:00:00Z"},
"to":{"id":"t2","start":"2026-03-09T09:30:00Z","end":"2026-03-11T11:00:00Z"}}`)

	handler.Move(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "segments overlap or coincide")
}

func TestTopicHandlerAppend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &topicServiceMock{}
	handler := NewTopicHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	postJSON(c, "/topics/append", `{"plan_id":"plan-1","name":"Genetics","duration":4,"start":"2026-04-01T00:00:00Z"}`)

	handler.Append(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.appended, 1)
	assert.Equal(t, 4, svc.appended[0].Duration)
	assert.Contains(t, w.Body.String(), `"appended":true`)
}
