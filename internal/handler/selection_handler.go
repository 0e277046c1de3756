package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gator-scheduler/schedule-api/internal/dto"
	"github.com/gator-scheduler/schedule-api/internal/service"
	appErrors "github.com/gator-scheduler/schedule-api/pkg/errors"
	"github.com/gator-scheduler/schedule-api/pkg/response"
)

// SelectionHandler exposes the selected-course store.
type SelectionHandler struct {
	selections *service.SelectionService
}

// NewSelectionHandler constructs SelectionHandler.
func NewSelectionHandler(selections *service.SelectionService) *SelectionHandler {
	return &SelectionHandler{selections: selections}
}

// List godoc
// @Summary List the planner's selected courses
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /planner [get]
func (h *SelectionHandler) List(c *gin.Context) {
	courses, err := h.selections.List(c.Request.Context(), plannerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Toggle godoc
// @Summary Toggle a section selection
// @Tags Planner
// @Accept json
// @Produce json
// @Param request body dto.ToggleSectionRequest true "Section to toggle"
// @Success 200 {object} response.Envelope
// @Router /planner/toggle [post]
func (h *SelectionHandler) Toggle(c *gin.Context) {
	var req dto.ToggleSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid toggle request"))
		return
	}
	if req.CourseCode == "" || req.ClassNumber == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseCode and classNumber are required"))
		return
	}

	courses, err := h.selections.Toggle(c.Request.Context(), plannerID(c), req.CourseCode, req.ClassNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Remove godoc
// @Summary Remove a course from the planner
// @Tags Planner
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /planner/courses/{code} [delete]
func (h *SelectionHandler) Remove(c *gin.Context) {
	courses, err := h.selections.RemoveCourse(c.Request.Context(), plannerID(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Credits godoc
// @Summary Total credits of the planner's selections
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /planner/credits [get]
func (h *SelectionHandler) Credits(c *gin.Context) {
	total, err := h.selections.TotalCredits(c.Request.Context(), plannerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CreditSummary{TotalCredits: total}, nil)
}
