package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentora/rentora-api/internal/middleware"
	"github.com/rentora/rentora-api/internal/repository"
	"github.com/rentora/rentora-api/internal/services"
)

// LeaseHandler serves the lease CRUD and lifecycle endpoints
type LeaseHandler struct {
	leaseService    *services.LeaseService
	activityService *services.ActivityService
}

// NewLeaseHandler creates a new lease handler
func NewLeaseHandler(leaseService *services.LeaseService, activityService *services.ActivityService) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService, activityService: activityService}
}

// @Summary List Leases
// @Description Get a paginated list of leases for the current organization
// @Tags Leases
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status (comma-separated)"
// @Param unit_id query int false "Filter by unit"
// @Param tenant_id query int false "Filter by tenant"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leases [get]
func (h *LeaseHandler) Index(c *gin.Context) {
	query := &repository.LeaseQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	if unitID, err := strconv.ParseUint(c.Query("unit_id"), 10, 32); err == nil {
		query.UnitID = uint(unitID)
	}
	if tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32); err == nil {
		query.TenantID = uint(tenantID)
	}
	if v := c.Query("starts_from"); v != "" {
		query.Filters["starts_from"] = v
	}
	if v := c.Query("ends_before"); v != "" {
		query.Filters["ends_before"] = v
	}
	if v := c.Query("is_auto_renew"); v != "" {
		query.Filters["is_auto_renew"] = v
	}
	query.OrganizationID = middleware.GetOrganizationID(c)

	leases, total, err := h.leaseService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]interface{}, 0, len(leases))
	for _, lease := range leases {
		responses = append(responses, lease.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"leases": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Lease
// @Description Get a lease by ID with tenant, unit and renewal links
// @Tags Leases
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Success 200 {object} models.LeaseResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /leases/{lease_id} [get]
func (h *LeaseHandler) Show(c *gin.Context) {
	lease, err := h.leaseService.Get(c.Request.Context(),
		middleware.GetOrganizationID(c), parseUintParam(c, "lease_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

// @Summary Check Availability
// @Description Check whether a unit is free for a candidate date interval
// @Tags Leases
// @Produce json
// @Param unit_id query int true "Unit ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param exclude_lease_id query int false "Lease to exclude from the check"
// @Success 200 {object} services.AvailabilityResult
// @Security BearerAuth
// @Router /leases/availability [get]
func (h *LeaseHandler) CheckAvailability(c *gin.Context) {
	unitID, err := strconv.ParseUint(c.Query("unit_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_id is required"})
		return
	}
	startDate, okStart := parseDateQuery(c, "start_date")
	endDate, okEnd := parseDateQuery(c, "end_date")
	if !okStart || !okEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required (YYYY-MM-DD)"})
		return
	}

	var excludeID *uint
	if raw := c.Query("exclude_lease_id"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			id := uint(parsed)
			excludeID = &id
		}
	}

	result, err := h.leaseService.CheckAvailability(c.Request.Context(), uint(unitID), startDate, endDate, excludeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Create Lease
// @Description Book a new draft lease on a unit
// @Tags Leases
// @Accept json
// @Produce json
// @Param lease body services.CreateLeaseRequest true "Lease payload"
// @Success 201 {object} models.LeaseResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /leases [post]
func (h *LeaseHandler) Create(c *gin.Context) {
	var req services.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lease, err := h.leaseService.Create(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lease": lease.ToResponse()})
}

// @Summary Update Lease
// @Description Edit lease fields, subject to the lifecycle guards
// @Tags Leases
// @Accept json
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Param lease body services.UpdateLeaseRequest true "Fields to change"
// @Success 200 {object} models.LeaseResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /leases/{lease_id} [put]
func (h *LeaseHandler) Update(c *gin.Context) {
	var req services.UpdateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lease, err := h.leaseService.Update(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetUserID(c),
		parseUintParam(c, "lease_id"), &req, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

// @Summary Delete Lease
// @Description Delete a draft lease outside any renewal chain
// @Tags Leases
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /leases/{lease_id} [delete]
func (h *LeaseHandler) Delete(c *gin.Context) {
	err := h.leaseService.Delete(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetUserID(c), parseUintParam(c, "lease_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lease deleted"})
}

type markPaidRequest struct {
	PaymentMethod *string `json:"payment_method"`
}

// @Summary Mark Lease Paid
// @Description Record a payment and activate a draft lease
// @Tags Leases
// @Accept json
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Param payment body markPaidRequest false "Payment details"
// @Success 200 {object} models.LeaseResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /leases/{lease_id}/pay [post]
func (h *LeaseHandler) MarkPaid(c *gin.Context) {
	var req markPaidRequest
	_ = c.ShouldBindJSON(&req)

	lease, err := h.leaseService.MarkPaid(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetUserID(c),
		parseUintParam(c, "lease_id"), req.PaymentMethod, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Change Lease Status
// @Description Apply a manual lifecycle transition (activate, cancel, end)
// @Tags Leases
// @Accept json
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Param status body changeStatusRequest true "Target status"
// @Success 200 {object} models.LeaseResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /leases/{lease_id}/status [patch]
func (h *LeaseHandler) UpdateStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lease, err := h.leaseService.ChangeStatus(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetUserID(c),
		parseUintParam(c, "lease_id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

type depositStatusRequest struct {
	DepositStatus string `json:"deposit_status" binding:"required"`
}

// @Summary Resolve Deposit
// @Description Mark a held deposit as returned or forfeited on an ended lease
// @Tags Leases
// @Accept json
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Param deposit body depositStatusRequest true "Deposit resolution"
// @Success 200 {object} models.LeaseResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /leases/{lease_id}/deposit [patch]
func (h *LeaseHandler) UpdateDeposit(c *gin.Context) {
	var req depositStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lease, err := h.leaseService.UpdateDepositStatus(c.Request.Context(),
		middleware.GetOrganizationID(c), middleware.GetUserID(c),
		parseUintParam(c, "lease_id"), req.DepositStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

// @Summary Lease Activity
// @Description Get the audit trail for one lease
// @Tags Leases
// @Produce json
// @Param lease_id path int true "Lease ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leases/{lease_id}/activity [get]
func (h *LeaseHandler) Activity(c *gin.Context) {
	entries, err := h.activityService.ListByLease(c.Request.Context(),
		middleware.GetOrganizationID(c), parseUintParam(c, "lease_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
