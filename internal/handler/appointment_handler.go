package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lernfeld/semesterplan-api/internal/dto"
	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
	"github.com/lernfeld/semesterplan-api/pkg/response"
)

// AppointmentServiceAPI is the appointment surface consumed by the handler.
type AppointmentServiceAPI interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]dto.AppointmentView, error)
	Create(ctx context.Context, req dto.CreateAppointmentRequest) (*models.Appointment, error)
}

// AppointmentHandler exposes appointment listing and creation.
type AppointmentHandler struct {
	appointments AppointmentServiceAPI
}

// NewAppointmentHandler constructs an appointment handler.
func NewAppointmentHandler(appointments AppointmentServiceAPI) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// List godoc
// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Param plan query string false "Filter by plan id"
// @Param area query string false "Filter by area id"
// @Param subject query string false "Filter by subject id"
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	filter := models.AppointmentFilter{
		PlanID:    c.Query("plan"),
		AreaID:    c.Query("area"),
		SubjectID: c.Query("subject"),
	}
	views, err := h.appointments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// ByPlan godoc
// @Summary List appointments of one plan
// @Tags Appointments
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id}/appointments [get]
func (h *AppointmentHandler) ByPlan(c *gin.Context) {
	views, err := h.appointments.List(c.Request.Context(), models.AppointmentFilter{PlanID: c.Param("id")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// Create godoc
// @Summary Create a single appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAppointmentRequest true "Appointment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	appt, err := h.appointments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appt)
}
