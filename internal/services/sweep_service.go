package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/rentora-api/internal/models"
	"github.com/rentora/rentora-api/internal/repository"
	"github.com/rentora/rentora-api/pkg/logger"
)

// SweepDetail correlates one lease to its outcome within a sweep run
type SweepDetail struct {
	LeaseID    uint   `json:"lease_id"`
	TenantName string `json:"tenant_name,omitempty"`
	UnitName   string `json:"unit_name,omitempty"`
	Success    bool   `json:"success"`
	NewLeaseID *uint  `json:"new_lease_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SweepResult is the JSON summary returned by the cron endpoints
type SweepResult struct {
	Success     bool          `json:"success"`
	RunID       string        `json:"run_id"`
	Sweep       string        `json:"sweep"`
	Processed   int           `json:"processed"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Details     []SweepDetail `json:"details"`
	ProcessedAt time.Time     `json:"processed_at"`
}

func newSweepResult(sweep string, now time.Time) *SweepResult {
	return &SweepResult{
		Success:     true,
		RunID:       uuid.NewString(),
		Sweep:       sweep,
		Details:     []SweepDetail{},
		ProcessedAt: now,
	}
}

func (r *SweepResult) record(detail SweepDetail) {
	r.Processed++
	if detail.Success {
		r.Succeeded++
	} else {
		r.Failed++
	}
	r.Details = append(r.Details, detail)
}

// SweepService runs the periodic lease sweeps. Every sweep re-derives
// eligibility from current lease state, so an aborted or repeated run is
// harmless: the second pass simply finds fewer (or zero) eligible leases.
// Per-lease failures are recorded in the result and never abort the batch.
type SweepService struct {
	leaseRepo     repository.LeaseRepository
	ruleRepo      repository.NotificationRuleRepository
	leases        *LeaseService
	renewals      *RenewalService
	schedule      *LeaseScheduleService
	notifications *NotificationService
}

// NewSweepService creates a new sweep service
func NewSweepService(
	leaseRepo repository.LeaseRepository,
	ruleRepo repository.NotificationRuleRepository,
	leases *LeaseService,
	renewals *RenewalService,
	schedule *LeaseScheduleService,
	notifications *NotificationService,
) *SweepService {
	return &SweepService{
		leaseRepo:     leaseRepo,
		ruleRepo:      ruleRepo,
		leases:        leases,
		renewals:      renewals,
		schedule:      schedule,
		notifications: notifications,
	}
}

// CancelUnpaidDrafts cancels draft leases that stayed unpaid past their
// grace deadline. A nil orgID sweeps every organization.
func (s *SweepService) CancelUnpaidDrafts(ctx context.Context, orgID *uint, now time.Time) (*SweepResult, error) {
	result := newSweepResult("cancel_unpaid", now)

	candidates, err := s.leaseRepo.FindGraceDraftCandidates(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("loading unpaid drafts: %w", err)
	}

	for _, lease := range candidates {
		if !s.schedule.IsOverdue(lease.StartDate, lease.GracePeriodDays, now) {
			continue
		}

		detail := SweepDetail{
			LeaseID:    lease.ID,
			TenantName: lease.Tenant.FullName,
			UnitName:   lease.Unit.Name,
		}
		if _, err := s.leases.ChangeStatus(ctx, lease.OrganizationID, 0, lease.ID, models.LeaseStatusCancelled); err != nil {
			detail.Error = err.Error()
			logger.Error("cancel-unpaid sweep: lease failed", "lease_id", lease.ID, "error", err)
		} else {
			detail.Success = true
		}
		result.record(detail)
	}

	return result, nil
}

// ExpireLeases ends active leases whose end date has passed. The tenant
// rollup and expiry notification run through the shared transition table.
func (s *SweepService) ExpireLeases(ctx context.Context, orgID *uint, now time.Time) (*SweepResult, error) {
	result := newSweepResult("expire", now)

	expired, err := s.leaseRepo.FindExpired(ctx, now, orgID)
	if err != nil {
		return nil, fmt.Errorf("loading expired leases: %w", err)
	}

	for _, lease := range expired {
		detail := SweepDetail{
			LeaseID:    lease.ID,
			TenantName: lease.Tenant.FullName,
			UnitName:   lease.Unit.Name,
		}
		if _, err := s.leases.ChangeStatus(ctx, lease.OrganizationID, 0, lease.ID, models.LeaseStatusEnded); err != nil {
			detail.Error = err.Error()
			logger.Error("expire sweep: lease failed", "lease_id", lease.ID, "error", err)
		} else {
			detail.Success = true
		}
		result.record(detail)
	}

	return result, nil
}

// ProcessRenewals renews every eligible auto-renew lease. An availability
// conflict on the renewal interval is reported as a per-lease failure,
// distinct from an unexpected error.
func (s *SweepService) ProcessRenewals(ctx context.Context, orgID *uint, now time.Time) (*SweepResult, error) {
	result := newSweepResult("renewals", now)

	eligible, err := s.renewals.EligibleRenewals(ctx, orgID, now)
	if err != nil {
		return nil, err
	}

	for _, lease := range eligible {
		detail := SweepDetail{
			LeaseID:    lease.ID,
			TenantName: lease.Tenant.FullName,
			UnitName:   lease.Unit.Name,
		}

		successor, err := s.renewals.CreateRenewal(ctx, lease.ID, now)
		switch {
		case err != nil:
			detail.Error = err.Error()
			logger.Error("renewal sweep: lease failed", "lease_id", lease.ID, "error", err)
		case successor == nil:
			detail.Error = "unit not available for renewal"
			logger.Warn("renewal sweep: interval taken", "lease_id", lease.ID)
		default:
			detail.Success = true
			detail.NewLeaseID = &successor.ID
		}
		result.record(detail)
	}

	return result, nil
}

// DispatchReminders evaluates the active notification rules against the
// current lease state: upcoming payment due dates, overdue unpaid drafts
// and leases ending exactly the configured number of days from now.
func (s *SweepService) DispatchReminders(ctx context.Context, orgID *uint, now time.Time) (*SweepResult, error) {
	result := newSweepResult("reminders", now)

	var rules []models.NotificationRule
	var err error
	if orgID != nil {
		rules, err = s.ruleRepo.FindActiveByOrganization(ctx, *orgID)
	} else {
		rules, err = s.ruleRepo.FindActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("loading notification rules: %w", err)
	}

	for _, rule := range rules {
		switch rule.Trigger {
		case models.TriggerPaymentReminder:
			s.dispatchPaymentReminders(ctx, rule, now, result)
		case models.TriggerPaymentLate:
			s.dispatchLateNotices(ctx, rule, now, result)
		case models.TriggerLeaseExpiring:
			s.dispatchExpiryNotices(ctx, rule, now, result)
		}
	}

	return result, nil
}

func (s *SweepService) dispatchPaymentReminders(ctx context.Context, rule models.NotificationRule, now time.Time, result *SweepResult) {
	targetDate := now.AddDate(0, 0, rule.DaysOffset)

	leases, err := s.leaseRepo.FindActiveSpanning(ctx, rule.OrganizationID, targetDate)
	if err != nil {
		result.Failed++
		logger.Error("reminder sweep: loading active leases", "rule_id", rule.ID, "error", err)
		return
	}

	for _, lease := range leases {
		if !s.schedule.IsPaymentDueOn(lease.StartDate, lease.PaymentCycle, targetDate) {
			continue
		}
		s.fireRuleTrigger(ctx, rule, lease, result)
	}
}

func (s *SweepService) dispatchLateNotices(ctx context.Context, rule models.NotificationRule, now time.Time, result *SweepResult) {
	drafts, err := s.leaseRepo.FindGraceDraftCandidates(ctx, &rule.OrganizationID)
	if err != nil {
		result.Failed++
		logger.Error("reminder sweep: loading unpaid drafts", "rule_id", rule.ID, "error", err)
		return
	}

	for _, lease := range drafts {
		if !s.schedule.IsOverdue(lease.StartDate, lease.GracePeriodDays, now) {
			continue
		}
		s.fireRuleTrigger(ctx, rule, lease, result)
	}
}

func (s *SweepService) dispatchExpiryNotices(ctx context.Context, rule models.NotificationRule, now time.Time, result *SweepResult) {
	targetDay := now.AddDate(0, 0, rule.DaysOffset)

	leases, err := s.leaseRepo.FindEndingOn(ctx, rule.OrganizationID, targetDay)
	if err != nil {
		result.Failed++
		logger.Error("reminder sweep: loading ending leases", "rule_id", rule.ID, "error", err)
		return
	}

	for _, lease := range leases {
		s.fireRuleTrigger(ctx, rule, lease, result)
	}
}

func (s *SweepService) fireRuleTrigger(ctx context.Context, rule models.NotificationRule, lease models.LeaseAgreement, result *SweepResult) {
	detail := SweepDetail{
		LeaseID:    lease.ID,
		TenantName: lease.Tenant.FullName,
		UnitName:   lease.Unit.Name,
	}

	triggerResult := s.notifications.ProcessTrigger(ctx, rule.OrganizationID, rule.Trigger, lease.ID)
	if triggerResult.Failed > 0 {
		detail.Error = fmt.Sprintf("%s: %v", rule.Trigger, triggerResult.Errors)
	} else {
		detail.Success = true
	}
	result.record(detail)
}
