package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
	"github.com/lernfeld/semesterplan-api/pkg/response"
)

// PlanServiceAPI is the plan surface consumed by the handler.
type PlanServiceAPI interface {
	ByID(ctx context.Context, id string) (*dto.PlanDetail, error)
	Draft(ctx context.Context) (*dto.PlanDetail, error)
	List(ctx context.Context, filter models.PlanFilter) ([]models.PlanSummary, error)
	Create(ctx context.Context, creatorID string, req dto.CreatePlanRequest) (*models.Plan, error)
	Update(ctx context.Context, id string, req dto.UpdatePlanRequest) (*models.Plan, error)
	Finish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// GeneratorServiceAPI is the generation surface consumed by the handler.
type GeneratorServiceAPI interface {
	Generate(ctx context.Context, planID string, req dto.GenerateAppointmentsRequest) (*dto.GenerateAppointmentsResult, error)
}

// PlanHandler exposes plan lifecycle endpoints.
type PlanHandler struct {
	plans     PlanServiceAPI
	generator GeneratorServiceAPI
}

// NewPlanHandler constructs a plan handler.
func NewPlanHandler(plans PlanServiceAPI, generator GeneratorServiceAPI) *PlanHandler {
	return &PlanHandler{plans: plans, generator: generator}
}

// List godoc
// @Summary List finished plans
// @Tags Plans
// @Produce json
// @Param temporal query string false "current, past or future" default(current)
// @Param search query string false "Search by subject or class name"
// @Param area query string false "Filter by area id"
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	filter := models.PlanFilter{
		Temporal: models.PlanTemporal(c.DefaultQuery("temporal", string(models.PlanTemporalCurrent))),
		Search:   strings.TrimSpace(c.Query("search")),
		AreaID:   c.Query("area"),
	}
	switch filter.Temporal {
	case models.PlanTemporalCurrent, models.PlanTemporalPast, models.PlanTemporalFuture:
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "temporal must be current, past or future"))
		return
	}

	plans, err := h.plans.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans)
}

// Draft godoc
// @Summary Get the unfinished draft plan
// @Tags Plans
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/draft [get]
func (h *PlanHandler) Draft(c *gin.Context) {
	draft, err := h.plans.Draft(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft)
}

// Get godoc
// @Summary Get plan detail
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	detail, err := h.plans.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Create godoc
// @Summary Create a draft plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.CreatePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.plans.Create(c.Request.Context(), userIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Update godoc
// @Summary Update a plan and its weekly pattern
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.UpdatePlanRequest true "Plan payload"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.plans.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// Finish godoc
// @Summary Finish a draft plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /plans/{id}/finish [post]
func (h *PlanHandler) Finish(c *gin.Context) {
	if err := h.plans.Finish(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "is_draft": false})
}

// Delete godoc
// @Summary Delete a draft plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 204 {string} string ""
// @Failure 409 {object} response.Envelope
// @Router /plans/{id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.plans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Generate godoc
// @Summary Generate lesson appointments from a template
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body dto.GenerateAppointmentsRequest true "Template selection"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /plans/{id}/appointments/generate [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	var req dto.GenerateAppointmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
