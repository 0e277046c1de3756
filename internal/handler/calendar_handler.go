package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gator-scheduler/schedule-api/internal/service"
	appErrors "github.com/gator-scheduler/schedule-api/pkg/errors"
	"github.com/gator-scheduler/schedule-api/pkg/response"
)

// CalendarHandler exposes the weekly calendar projection and its
// downloadable exports.
type CalendarHandler struct {
	calendar *service.CalendarService
	exports  *service.ExportService
}

// NewCalendarHandler constructs CalendarHandler.
func NewCalendarHandler(calendar *service.CalendarService, exports *service.ExportService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, exports: exports}
}

// Current godoc
// @Summary The planner's calendar for the current week
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /planner/calendar [get]
func (h *CalendarHandler) Current(c *gin.Context) {
	calendar, err := h.calendar.Current(c.Request.Context(), plannerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Export godoc
// @Summary Download the planner's schedule
// @Tags Calendar
// @Param format query string true "ics, csv or pdf"
// @Success 200
// @Router /planner/calendar/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "ics")
	planner := plannerID(c)
	ctx := c.Request.Context()

	var (
		payload     []byte
		contentType string
		filename    string
		err         error
	)
	switch format {
	case "ics":
		payload, err = h.exports.ICS(ctx, planner)
		contentType, filename = "text/calendar", "schedule.ics"
	case "csv":
		payload, err = h.exports.CSV(ctx, planner)
		contentType, filename = "text/csv", "schedule.csv"
	case "pdf":
		payload, err = h.exports.PDF(ctx, planner)
		contentType, filename = "application/pdf", "schedule.pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format)))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, payload)
}
