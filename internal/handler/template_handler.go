package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	"github.com/lernfeld/semesterplan-api/pkg/response"
)

// TemplateServiceAPI is the template surface consumed by the handler.
type TemplateServiceAPI interface {
	ForPlan(ctx context.Context, planID string) ([]dto.TemplateOption, error)
	Exceptions(ctx context.Context, templateID string) ([]models.TemplateAppointment, error)
}

// TemplateHandler exposes template selection endpoints.
type TemplateHandler struct {
	templates TemplateServiceAPI
}

// NewTemplateHandler constructs a template handler.
func NewTemplateHandler(templates TemplateServiceAPI) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// ForPlan godoc
// @Summary List templates selectable for a plan
// @Tags Templates
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id}/templates [get]
func (h *TemplateHandler) ForPlan(c *gin.Context) {
	options, err := h.templates.ForPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options)
}

// Exceptions godoc
// @Summary List a template's calendar exceptions
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /templates/{id}/exceptions [get]
func (h *TemplateHandler) Exceptions(c *gin.Context) {
	exceptions, err := h.templates.Exceptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exceptions)
}
