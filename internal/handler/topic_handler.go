package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/middleware"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
	"github.com/lernfeld/semesterplan-api/pkg/response"
)

// TopicServiceAPI is the topic surface consumed by the handler.
type TopicServiceAPI interface {
	All(ctx context.Context) ([]models.Topic, error)
	Overview(ctx context.Context) ([]dto.TopicSegment, bool, error)
	ByPlan(ctx context.Context, planID string) ([]dto.TopicSegment, bool, error)
	CountByPlan(ctx context.Context, planID string) (int, error)
	Rename(ctx context.Context, req dto.RenameTopicRequest) error
	Shorten(ctx context.Context, req dto.ShortenTopicRequest) error
	Move(ctx context.Context, req dto.MoveTopicRequest) error
	Append(ctx context.Context, req dto.AppendTopicRequest) error
}

// TopicHandler exposes the topic segment endpoints.
type TopicHandler struct {
	topics TopicServiceAPI
}

// NewTopicHandler constructs a topic handler.
func NewTopicHandler(topics TopicServiceAPI) *TopicHandler {
	return &TopicHandler{topics: topics}
}

// List godoc
// @Summary List all topics
// @Tags Topics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /topics [get]
func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.topics.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, topics)
}

// Overview godoc
// @Summary Segment overview across all lesson appointments
// @Tags Topics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /topics/overview [get]
func (h *TopicHandler) Overview(c *gin.Context) {
	segments, hit, err := h.topics.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, segments, middleware.ExtractMeta(c))
}

// ByPlan godoc
// @Summary Segment view of one plan
// @Tags Topics
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id}/topics [get]
func (h *TopicHandler) ByPlan(c *gin.Context) {
	segments, hit, err := h.topics.ByPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, segments, middleware.ExtractMeta(c))
}

// CountByPlan godoc
// @Summary Count distinct topics of one plan
// @Tags Topics
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id}/topics/count [get]
func (h *TopicHandler) CountByPlan(c *gin.Context) {
	count, err := h.topics.CountByPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"count": count})
}

// Rename godoc
// @Summary Rename a topic within a scope
// @Tags Topics
// @Accept json
// @Produce json
// @Param payload body dto.RenameTopicRequest true "Rename payload"
// @Success 200 {object} response.Envelope
// @Router /topics/rename [post]
func (h *TopicHandler) Rename(c *gin.Context) {
	var req dto.RenameTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.topics.Rename(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"renamed": true})
}

// Shorten godoc
// @Summary Shorten a topic block
// @Tags Topics
// @Accept json
// @Produce json
// @Param payload body dto.ShortenTopicRequest true "Shorten payload"
// @Success 200 {object} response.Envelope
// @Router /topics/shorten [post]
func (h *TopicHandler) Shorten(c *gin.Context) {
	var req dto.ShortenTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.topics.Shorten(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"shortened": true})
}

// Move godoc
// @Summary Swap two topic segments in the calendar
// @Tags Topics
// @Accept json
// @Produce json
// @Param payload body dto.MoveTopicRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Router /topics/move [post]
func (h *TopicHandler) Move(c *gin.Context) {
	var req dto.MoveTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.topics.Move(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"moved": true})
}

// Append godoc
// @Summary Assign a topic to trailing undefined lessons
// @Tags Topics
// @Accept json
// @Produce json
// @Param payload body dto.AppendTopicRequest true "Append payload"
// @Success 200 {object} response.Envelope
// @Router /topics/append [post]
func (h *TopicHandler) Append(c *gin.Context) {
	var req dto.AppendTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.topics.Append(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"appended": true})
}
