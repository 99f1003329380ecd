package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentora/rentora-api/internal/middleware"
	"github.com/rentora/rentora-api/internal/services"
)

// RenewalHandler serves the operator-facing renewal endpoints
type RenewalHandler struct {
	renewalService *services.RenewalService
	sweepService   *services.SweepService
}

// NewRenewalHandler creates a new renewal handler
func NewRenewalHandler(renewalService *services.RenewalService, sweepService *services.SweepService) *RenewalHandler {
	return &RenewalHandler{renewalService: renewalService, sweepService: sweepService}
}

// @Summary Eligible Renewals
// @Description Preview the auto-renew leases currently eligible for renewal
// @Tags Renewals
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /renewals/eligible [get]
func (h *RenewalHandler) Eligible(c *gin.Context) {
	orgID := middleware.GetOrganizationID(c)
	eligible, err := h.renewalService.EligibleRenewals(c.Request.Context(), &orgID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]interface{}, 0, len(eligible))
	for _, lease := range eligible {
		responses = append(responses, lease.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{
		"eligible": responses,
		"count":    len(eligible),
	})
}

// @Summary Process Renewals
// @Description Run the renewal sweep now for the current organization
// @Tags Renewals
// @Produce json
// @Success 200 {object} services.SweepResult
// @Security BearerAuth
// @Router /renewals/process [post]
func (h *RenewalHandler) Process(c *gin.Context) {
	orgID := middleware.GetOrganizationID(c)
	result, err := h.sweepService.ProcessRenewals(c.Request.Context(), &orgID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
