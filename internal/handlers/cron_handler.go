package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentora/rentora-api/internal/services"
)

// CronHandler serves the sweep endpoints hit by the external scheduler.
// Each endpoint optionally narrows the sweep to one organization via the
// organization_id query parameter; by default it runs across all tenants.
type CronHandler struct {
	sweepService *services.SweepService
}

// NewCronHandler creates a new cron handler
func NewCronHandler(sweepService *services.SweepService) *CronHandler {
	return &CronHandler{sweepService: sweepService}
}

func cronOrgFilter(c *gin.Context) *uint {
	raw := c.Query("organization_id")
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(parsed)
	return &id
}

// @Summary Cancel Unpaid Drafts
// @Description Cancel draft leases unpaid past their grace deadline
// @Tags Cron
// @Produce json
// @Param organization_id query int false "Limit to one organization"
// @Success 200 {object} services.SweepResult
// @Security BearerAuth
// @Router /cron/cancel-unpaid [post]
func (h *CronHandler) CancelUnpaid(c *gin.Context) {
	result, err := h.sweepService.CancelUnpaidDrafts(c.Request.Context(), cronOrgFilter(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Expire Leases
// @Description End active leases past their end date
// @Tags Cron
// @Produce json
// @Param organization_id query int false "Limit to one organization"
// @Success 200 {object} services.SweepResult
// @Security BearerAuth
// @Router /cron/expire [post]
func (h *CronHandler) Expire(c *gin.Context) {
	result, err := h.sweepService.ExpireLeases(c.Request.Context(), cronOrgFilter(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Process Renewals
// @Description Renew every eligible auto-renew lease
// @Tags Cron
// @Produce json
// @Param organization_id query int false "Limit to one organization"
// @Success 200 {object} services.SweepResult
// @Security BearerAuth
// @Router /cron/renewals [post]
func (h *CronHandler) Renewals(c *gin.Context) {
	result, err := h.sweepService.ProcessRenewals(c.Request.Context(), cronOrgFilter(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Dispatch Reminders
// @Description Evaluate notification rules and fire reminder triggers
// @Tags Cron
// @Produce json
// @Param organization_id query int false "Limit to one organization"
// @Success 200 {object} services.SweepResult
// @Security BearerAuth
// @Router /cron/reminders [post]
func (h *CronHandler) Reminders(c *gin.Context) {
	result, err := h.sweepService.DispatchReminders(c.Request.Context(), cronOrgFilter(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
