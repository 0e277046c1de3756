package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gator-scheduler/schedule-api/internal/dto"
	"github.com/gator-scheduler/schedule-api/internal/service"
	"github.com/gator-scheduler/schedule-api/pkg/response"
)

// CatalogHandler exposes course catalog search.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Search godoc
// @Summary Search the course catalog
// @Tags Catalog
// @Produce json
// @Param search query string false "Course code prefix"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	var query dto.CatalogSearchQuery
	query.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		query.Limit = limit
	}

	result, err := h.catalog.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Courses, &result.Pagination, map[string]interface{}{"cacheHit": result.CacheHit})
}
