package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rentora/rentora-api/internal/middleware"
	"github.com/rentora/rentora-api/internal/services"
)

// ActivityHandler serves the organization audit trail
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// @Summary List Activity
// @Description Get the most recent activity entries for the organization
// @Tags Activity
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /activity [get]
func (h *ActivityHandler) Index(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.activityService.List(c.Request.Context(), middleware.GetOrganizationID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
