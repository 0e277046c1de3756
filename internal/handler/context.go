package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gator-scheduler/schedule-api/internal/middleware"
)

// plannerID extracts the identity the planner middleware resolved.
func plannerID(c *gin.Context) string {
	return c.GetString(middleware.ContextPlannerKey)
}
