package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gator-scheduler/schedule-api/internal/dto"
	"github.com/gator-scheduler/schedule-api/internal/service"
	appErrors "github.com/gator-scheduler/schedule-api/pkg/errors"
	"github.com/gator-scheduler/schedule-api/pkg/response"
)

// AppointmentHandler exposes the custom appointment store.
type AppointmentHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentHandler constructs AppointmentHandler.
func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// List godoc
// @Summary List the planner's custom appointments
// @Tags Appointments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /planner/appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	appointments, err := h.appointments.List(c.Request.Context(), plannerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointments, nil)
}

// Create godoc
// @Summary Create a custom appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomAppointmentRequest true "Appointment"
// @Success 201 {object} response.Envelope
// @Router /planner/appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateCustomAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload"))
		return
	}

	appointment, err := h.appointments.Create(c.Request.Context(), plannerID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appointment)
}

// Remove godoc
// @Summary Delete a custom appointment
// @Tags Appointments
// @Param id path string true "Appointment ID"
// @Success 204
// @Router /planner/appointments/{id} [delete]
func (h *AppointmentHandler) Remove(c *gin.Context) {
	if err := h.appointments.Remove(c.Request.Context(), plannerID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
