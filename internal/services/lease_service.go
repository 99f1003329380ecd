package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rentora/rentora-api/internal/jobs"
	"github.com/rentora/rentora-api/internal/models"
	"github.com/rentora/rentora-api/internal/repository"
	"github.com/rentora/rentora-api/internal/statemachine"
	"gorm.io/gorm"
)

// CreateLeaseRequest is the payload for creating a lease
type CreateLeaseRequest struct {
	UnitID                uint      `json:"unit_id" binding:"required"`
	TenantID              uint      `json:"tenant_id" binding:"required"`
	StartDate             time.Time `json:"start_date" binding:"required"`
	EndDate               time.Time `json:"end_date" binding:"required"`
	PaymentCycle          string    `json:"payment_cycle"`
	RentAmount            float64   `json:"rent_amount"`
	DepositAmount         *float64  `json:"deposit_amount"`
	IsAutoRenew           bool      `json:"is_auto_renew"`
	GracePeriodDays       *int      `json:"grace_period_days"`
	AutoRenewalNoticeDays *int      `json:"auto_renewal_notice_days"`
}

// UpdateLeaseRequest is the payload for editing a lease. Nil fields are
// left unchanged.
type UpdateLeaseRequest struct {
	StartDate             *time.Time `json:"start_date"`
	EndDate               *time.Time `json:"end_date"`
	PaymentCycle          *string    `json:"payment_cycle"`
	RentAmount            *float64   `json:"rent_amount"`
	DepositAmount         *float64   `json:"deposit_amount"`
	IsAutoRenew           *bool      `json:"is_auto_renew"`
	GracePeriodDays       *int       `json:"grace_period_days"`
	AutoRenewalNoticeDays *int       `json:"auto_renewal_notice_days"`
}

// transitionKey identifies one edge of the lease state machine
type transitionKey struct {
	from string
	to   string
}

// triggerIntent is a notification recorded during a transaction and
// dispatched only after the commit resolves.
type triggerIntent struct {
	trigger string
	leaseID uint
}

// sideEffects collects activity-log entries and notification triggers
// produced inside a transaction. They run after commit, fire-and-forget.
type sideEffects struct {
	activities []ActivityEntry
	triggers   []triggerIntent
}

func (fx *sideEffects) logActivity(entry ActivityEntry) {
	fx.activities = append(fx.activities, entry)
}

func (fx *sideEffects) fire(trigger string, leaseID uint) {
	fx.triggers = append(fx.triggers, triggerIntent{trigger: trigger, leaseID: leaseID})
}

func (fx *sideEffects) empty() bool {
	return len(fx.activities) == 0 && len(fx.triggers) == 0
}

// transitionHandler runs the in-transaction side effects for one status
// edge and records the post-commit effects. tx is the transaction handle.
type transitionHandler func(ctx context.Context, tx *gorm.DB, lease *models.LeaseAgreement, fx *sideEffects) error

// LeaseService owns the lease lifecycle: creation, edits, status
// transitions and deletion. Every entry point (API, payment confirmation,
// cron sweep) funnels through the same transition table so the side
// effects of a status change can never diverge between callers.
type LeaseService struct {
	db            *gorm.DB
	leaseRepo     repository.LeaseRepository
	tenantRepo    repository.TenantRepository
	unitRepo      repository.UnitRepository
	availability  *AvailabilityService
	schedule      *LeaseScheduleService
	activity      *ActivityService
	notifications *NotificationService
	worker        *jobs.Worker

	transitions map[transitionKey]transitionHandler
}

// NewLeaseService creates a new lease service
func NewLeaseService(
	db *gorm.DB,
	repos *repository.Repositories,
	availability *AvailabilityService,
	schedule *LeaseScheduleService,
	activity *ActivityService,
	notifications *NotificationService,
	worker *jobs.Worker,
) *LeaseService {
	s := &LeaseService{
		db:            db,
		leaseRepo:     repos.Lease,
		tenantRepo:    repos.Tenant,
		unitRepo:      repos.Unit,
		availability:  availability,
		schedule:      schedule,
		activity:      activity,
		notifications: notifications,
		worker:        worker,
	}

	s.transitions = map[transitionKey]transitionHandler{
		{models.LeaseStatusDraft, models.LeaseStatusActive}:    s.onActivated,
		{models.LeaseStatusDraft, models.LeaseStatusCancelled}: s.onCancelled,
		{models.LeaseStatusActive, models.LeaseStatusEnded}:    s.onEnded,
	}

	return s
}

// onActivated syncs the tenant to active alongside the lease
func (s *LeaseService) onActivated(ctx context.Context, tx *gorm.DB, lease *models.LeaseAgreement, fx *sideEffects) error {
	tenants := repository.NewTenantRepository(tx)
	if err := tenants.UpdateStatus(ctx, lease.TenantID, models.TenantStatusActive); err != nil {
		return fmt.Errorf("syncing tenant status: %w", err)
	}

	fx.logActivity(ActivityEntry{
		Type:        models.ActivityLeaseUpdated,
		Description: fmt.Sprintf("Lease #%d activated", lease.ID),
		TenantID:    &lease.TenantID,
		UnitID:      &lease.UnitID,
		LeaseID:     &lease.ID,
	})
	return nil
}

// onCancelled records the auto-cancellation of an unpaid draft
func (s *LeaseService) onCancelled(ctx context.Context, tx *gorm.DB, lease *models.LeaseAgreement, fx *sideEffects) error {
	fx.logActivity(ActivityEntry{
		Type:        models.ActivityLeaseTerminated,
		Description: fmt.Sprintf("Lease #%d cancelled", lease.ID),
		TenantID:    &lease.TenantID,
		UnitID:      &lease.UnitID,
		LeaseID:     &lease.ID,
	})
	return nil
}

// onEnded rolls the tenant over to expired when their last active lease
// ends, and fires the expiry notification.
func (s *LeaseService) onEnded(ctx context.Context, tx *gorm.DB, lease *models.LeaseAgreement, fx *sideEffects) error {
	leases := repository.NewLeaseRepository(tx)
	remaining, err := leases.CountActiveByTenant(ctx, lease.TenantID, lease.ID)
	if err != nil {
		return fmt.Errorf("counting tenant leases: %w", err)
	}

	if remaining == 0 {
		tenants := repository.NewTenantRepository(tx)
		if err := tenants.UpdateStatus(ctx, lease.TenantID, models.TenantStatusExpired); err != nil {
			return fmt.Errorf("syncing tenant status: %w", err)
		}
		fx.logActivity(ActivityEntry{
			Type:        models.ActivityTenantStatusChanged,
			Description: fmt.Sprintf("Tenant #%d expired: no active leases remain", lease.TenantID),
			TenantID:    &lease.TenantID,
			LeaseID:     &lease.ID,
		})
	}

	fx.logActivity(ActivityEntry{
		Type:        models.ActivityLeaseTerminated,
		Description: fmt.Sprintf("Lease #%d ended", lease.ID),
		TenantID:    &lease.TenantID,
		UnitID:      &lease.UnitID,
		LeaseID:     &lease.ID,
	})
	fx.fire(models.TriggerLeaseExpired, lease.ID)
	return nil
}

// applyTransition fires a state-machine event and runs the matching
// transition handler inside tx.
func (s *LeaseService) applyTransition(ctx context.Context, tx *gorm.DB, lease *models.LeaseAgreement, event string, fx *sideEffects) error {
	from := lease.Status

	machine := statemachine.NewLeaseFSM(lease)
	if err := machine.Fire(ctx, event); err != nil {
		return NewValidationError(err.Error())
	}

	if handler, ok := s.transitions[transitionKey{from, lease.Status}]; ok {
		if err := handler(ctx, tx, lease, fx); err != nil {
			return err
		}
	}
	return nil
}

// runEffects dispatches collected side effects after a successful commit.
// Failures are logged by the collaborators and never reach the caller.
func (s *LeaseService) runEffects(orgID, userID uint, fx *sideEffects) {
	if fx.empty() {
		return
	}
	s.worker.Enqueue("lease-side-effects", func(ctx context.Context) error {
		for _, entry := range fx.activities {
			s.activity.Log(ctx, orgID, userID, entry)
		}
		for _, intent := range fx.triggers {
			s.notifications.DispatchAsync(ctx, orgID, intent.trigger, intent.leaseID)
		}
		return nil
	})
}

// mapDBError translates database constraint violations into conflict
// errors. The exclusion constraint on (unit, daterange) and the unique
// index on renewed_from_id are the backstops behind the application-level
// checks.
func mapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01":
			return NewConflictError("Unit already has an overlapping lease for these dates")
		case "23505":
			if strings.Contains(pgErr.ConstraintName, "renewed_from") {
				return NewConflictError("Lease has already been renewed")
			}
			return NewConflictError("Conflicting lease write, please retry")
		}
	}
	return err
}

// getOwned loads a lease with associations and enforces the organization
// boundary.
func (s *LeaseService) getOwned(ctx context.Context, orgID, leaseID uint) (*models.LeaseAgreement, error) {
	lease, err := s.leaseRepo.FindByIDWithDetails(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lease.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	return lease, nil
}

// Get returns one lease with its tenant, unit and renewal links
func (s *LeaseService) Get(ctx context.Context, orgID, leaseID uint) (*models.LeaseAgreement, error) {
	return s.getOwned(ctx, orgID, leaseID)
}

// List returns leases for an organization with filters and pagination
func (s *LeaseService) List(ctx context.Context, query *repository.LeaseQuery) ([]models.LeaseAgreement, int64, error) {
	return s.leaseRepo.List(ctx, query)
}

// CheckAvailability exposes the validator for the pre-booking endpoint
func (s *LeaseService) CheckAvailability(ctx context.Context, unitID uint, startDate, endDate time.Time, excludeLeaseID *uint) (*AvailabilityResult, error) {
	return s.availability.CheckAvailability(ctx, unitID, startDate, endDate, excludeLeaseID)
}

// Create books a new draft lease. Availability is validated twice: once up
// front for a friendly rejection, and again inside the transaction under a
// unit-row lock so two concurrent requests cannot both pass against a
// stale read.
func (s *LeaseService) Create(ctx context.Context, orgID, userID uint, req *CreateLeaseRequest) (*models.LeaseAgreement, error) {
	if err := s.validateCreate(ctx, orgID, req); err != nil {
		return nil, err
	}

	if err := s.availability.EnsureAvailable(ctx, req.UnitID, req.StartDate, req.EndDate, nil); err != nil {
		return nil, err
	}

	lease := &models.LeaseAgreement{
		OrganizationID:        orgID,
		UnitID:                req.UnitID,
		TenantID:              req.TenantID,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		PaymentCycle:          req.PaymentCycle,
		RentAmount:            req.RentAmount,
		DepositAmount:         req.DepositAmount,
		Status:                models.LeaseStatusDraft,
		PaymentStatus:         models.LeasePaymentPending,
		IsAutoRenew:           req.IsAutoRenew,
		GracePeriodDays:       req.GracePeriodDays,
		AutoRenewalNoticeDays: req.AutoRenewalNoticeDays,
	}
	if req.DepositAmount != nil && *req.DepositAmount > 0 {
		held := models.DepositStatusHeld
		lease.DepositStatus = &held
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		units := repository.NewUnitRepository(tx)
		if _, err := units.FindByIDForUpdate(ctx, req.UnitID); err != nil {
			return fmt.Errorf("locking unit: %w", err)
		}

		txAvailability := NewAvailabilityService(repository.NewLeaseRepository(tx))
		if err := txAvailability.EnsureAvailable(ctx, req.UnitID, req.StartDate, req.EndDate, nil); err != nil {
			return err
		}

		return repository.NewLeaseRepository(tx).Create(ctx, lease)
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	fx := &sideEffects{}
	fx.logActivity(ActivityEntry{
		Type:        models.ActivityLeaseCreated,
		Description: fmt.Sprintf("Lease #%d created", lease.ID),
		TenantID:    &lease.TenantID,
		UnitID:      &lease.UnitID,
		LeaseID:     &lease.ID,
	})
	s.runEffects(orgID, userID, fx)

	return s.getOwned(ctx, orgID, lease.ID)
}

func (s *LeaseService) validateCreate(ctx context.Context, orgID uint, req *CreateLeaseRequest) error {
	if req.PaymentCycle == "" {
		req.PaymentCycle = models.PaymentCycleMonthly
	}
	if !models.ValidPaymentCycle(req.PaymentCycle) {
		return NewValidationError("payment_cycle must be daily, monthly or annual")
	}
	if !req.StartDate.Before(req.EndDate) {
		return NewValidationError("End date must be after start date")
	}
	if req.RentAmount < 0 {
		return NewValidationError("rent_amount must not be negative")
	}
	if req.DepositAmount != nil && *req.DepositAmount < 0 {
		return NewValidationError("deposit_amount must not be negative")
	}
	if req.GracePeriodDays != nil && *req.GracePeriodDays < 0 {
		return NewValidationError("grace_period_days must not be negative")
	}
	if req.AutoRenewalNoticeDays != nil && *req.AutoRenewalNoticeDays < 1 {
		return NewValidationError("auto_renewal_notice_days must be at least 1")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("tenant not found")
		}
		return err
	}
	if tenant.OrganizationID != orgID {
		return NewValidationError("tenant not found")
	}

	unit, err := s.unitRepo.FindByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("unit not found")
		}
		return err
	}
	if unit.OrganizationID != orgID {
		return NewValidationError("unit not found")
	}

	return nil
}

// MarkPaid records a payment and activates a draft lease. The tenant sync
// and the payment fields commit in one transaction.
func (s *LeaseService) MarkPaid(ctx context.Context, orgID, userID, leaseID uint, paymentMethod *string, now time.Time) (*models.LeaseAgreement, error) {
	fx := &sideEffects{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leases := repository.NewLeaseRepository(tx)
		lease, err := leases.FindByIDForUpdate(ctx, leaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if lease.OrganizationID != orgID {
			return ErrNotFound
		}
		if lease.IsPaid() {
			return NewValidationError("lease is already paid")
		}
		if !lease.MayActivate() {
			return NewValidationError(fmt.Sprintf("cannot record payment on a %s lease", lease.Status))
		}

		lease.PaidAt = &now
		lease.PaymentStatus = models.LeasePaymentPaid
		lease.PaymentMethod = paymentMethod

		if err := s.applyTransition(ctx, tx, lease, statemachine.EventActivate, fx); err != nil {
			return err
		}
		return leases.Update(ctx, lease)
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	fx.fire(models.TriggerPaymentConfirmed, leaseID)
	s.runEffects(orgID, userID, fx)

	return s.getOwned(ctx, orgID, leaseID)
}

// ChangeStatus applies a manual status transition (operator action).
// Allowed targets map to state-machine events; everything else is
// rejected by the machine's guards.
func (s *LeaseService) ChangeStatus(ctx context.Context, orgID, userID, leaseID uint, newStatus string) (*models.LeaseAgreement, error) {
	var event string
	switch newStatus {
	case models.LeaseStatusActive:
		event = statemachine.EventActivate
	case models.LeaseStatusCancelled:
		event = statemachine.EventCancel
	case models.LeaseStatusEnded:
		event = statemachine.EventEnd
	default:
		return nil, NewValidationError(fmt.Sprintf("cannot transition a lease to %q", newStatus))
	}

	fx := &sideEffects{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leases := repository.NewLeaseRepository(tx)
		lease, err := leases.FindByIDForUpdate(ctx, leaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if lease.OrganizationID != orgID {
			return ErrNotFound
		}

		if err := s.applyTransition(ctx, tx, lease, event, fx); err != nil {
			return err
		}
		return leases.Update(ctx, lease)
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	s.runEffects(orgID, userID, fx)

	return s.getOwned(ctx, orgID, leaseID)
}

// Update edits lease fields subject to the lifecycle guards: core terms
// only while draft, auto-renewal settings frozen past the notice deadline,
// deposit resolution handled separately.
func (s *LeaseService) Update(ctx context.Context, orgID, userID, leaseID uint, req *UpdateLeaseRequest, now time.Time) (*models.LeaseAgreement, error) {
	fx := &sideEffects{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leases := repository.NewLeaseRepository(tx)
		lease, err := leases.FindByIDForUpdate(ctx, leaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if lease.OrganizationID != orgID {
			return ErrNotFound
		}
		if lease.IsTerminal() {
			return NewValidationError(fmt.Sprintf("cannot edit a %s lease", lease.Status))
		}

		if err := s.applyUpdate(ctx, tx, lease, req, now); err != nil {
			return err
		}

		fx.logActivity(ActivityEntry{
			Type:        models.ActivityLeaseUpdated,
			Description: fmt.Sprintf("Lease #%d updated", lease.ID),
			TenantID:    &lease.TenantID,
			UnitID:      &lease.UnitID,
			LeaseID:     &lease.ID,
		})
		return leases.Update(ctx, lease)
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	s.runEffects(orgID, userID, fx)

	return s.getOwned(ctx, orgID, leaseID)
}

func (s *LeaseService) applyUpdate(ctx context.Context, tx *gorm.DB, lease *models.LeaseAgreement, req *UpdateLeaseRequest, now time.Time) error {
	editsCoreTerms := req.StartDate != nil || req.EndDate != nil ||
		req.PaymentCycle != nil || req.RentAmount != nil || req.DepositAmount != nil
	if editsCoreTerms && !lease.MayEditCoreTerms() {
		return NewValidationError("dates, payment cycle and amounts can only change while the lease is a draft")
	}

	editsRenewalFields := req.IsAutoRenew != nil || req.GracePeriodDays != nil || req.AutoRenewalNoticeDays != nil
	if editsRenewalFields && lease.Status == models.LeaseStatusActive && lease.AutoRenewalNoticeDays != nil {
		deadline := s.schedule.AutoRenewalDeadline(lease.EndDate, *lease.AutoRenewalNoticeDays)
		if !now.Before(deadline) {
			return NewValidationError("auto-renewal settings are locked past the renewal notice deadline")
		}
	}

	// Enabling auto-renew would silently block a booking that already
	// exists after this lease's end date.
	if req.IsAutoRenew != nil && *req.IsAutoRenew && !lease.IsAutoRenew && lease.Status == models.LeaseStatusActive {
		leases := repository.NewLeaseRepository(tx)
		blocked, err := leases.HasFutureOnUnit(ctx, lease.UnitID, lease.EndDate, lease.ID)
		if err != nil {
			return err
		}
		if blocked {
			return NewConflictError("cannot enable auto-renew: a future lease already exists on this unit")
		}
	}

	if req.StartDate != nil {
		lease.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		lease.EndDate = *req.EndDate
	}
	if req.PaymentCycle != nil {
		if !models.ValidPaymentCycle(*req.PaymentCycle) {
			return NewValidationError("payment_cycle must be daily, monthly or annual")
		}
		lease.PaymentCycle = *req.PaymentCycle
	}
	if req.RentAmount != nil {
		if *req.RentAmount < 0 {
			return NewValidationError("rent_amount must not be negative")
		}
		lease.RentAmount = *req.RentAmount
	}
	if req.DepositAmount != nil {
		if *req.DepositAmount < 0 {
			return NewValidationError("deposit_amount must not be negative")
		}
		lease.DepositAmount = req.DepositAmount
		if *req.DepositAmount > 0 && lease.DepositStatus == nil {
			held := models.DepositStatusHeld
			lease.DepositStatus = &held
		}
	}
	if req.GracePeriodDays != nil {
		if *req.GracePeriodDays < 0 {
			return NewValidationError("grace_period_days must not be negative")
		}
		lease.GracePeriodDays = req.GracePeriodDays
	}
	if req.AutoRenewalNoticeDays != nil {
		if *req.AutoRenewalNoticeDays < 1 {
			return NewValidationError("auto_renewal_notice_days must be at least 1")
		}
		lease.AutoRenewalNoticeDays = req.AutoRenewalNoticeDays
	}
	if req.IsAutoRenew != nil {
		lease.IsAutoRenew = *req.IsAutoRenew
	}

	if !lease.StartDate.Before(lease.EndDate) {
		return NewValidationError("End date must be after start date")
	}

	// Dates changed: re-validate the edited interval, excluding this lease
	if req.StartDate != nil || req.EndDate != nil {
		txAvailability := NewAvailabilityService(repository.NewLeaseRepository(tx))
		if err := txAvailability.EnsureAvailable(ctx, lease.UnitID, lease.StartDate, lease.EndDate, &lease.ID); err != nil {
			return err
		}
	}

	return nil
}

// UpdateDepositStatus resolves a held deposit on an ended lease. Rejected
// unless the lease is ended, the deposit is still held, and the lease has
// no renewal successor (the successor inherits the deposit).
func (s *LeaseService) UpdateDepositStatus(ctx context.Context, orgID, userID, leaseID uint, newStatus string) (*models.LeaseAgreement, error) {
	if newStatus != models.DepositStatusReturned && newStatus != models.DepositStatusForfeited {
		return nil, NewValidationError("deposit_status must be returned or forfeited")
	}

	lease, err := s.getOwned(ctx, orgID, leaseID)
	if err != nil {
		return nil, err
	}
	if !lease.MayChangeDepositStatus() {
		return nil, NewValidationError("deposit can only be resolved on an ended lease with a held deposit and no renewal successor")
	}

	lease.DepositStatus = &newStatus
	if err := s.leaseRepo.Update(ctx, lease); err != nil {
		return nil, err
	}

	fx := &sideEffects{}
	fx.logActivity(ActivityEntry{
		Type:        models.ActivityLeaseUpdated,
		Description: fmt.Sprintf("Lease #%d deposit %s", lease.ID, newStatus),
		TenantID:    &lease.TenantID,
		UnitID:      &lease.UnitID,
		LeaseID:     &lease.ID,
	})
	s.runEffects(orgID, userID, fx)

	return s.getOwned(ctx, orgID, leaseID)
}

// Delete removes a draft lease that is outside any renewal chain. If the
// tenant has no other leases they revert to lead.
func (s *LeaseService) Delete(ctx context.Context, orgID, userID, leaseID uint) error {
	fx := &sideEffects{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leases := repository.NewLeaseRepository(tx)
		lease, err := leases.FindByIDForUpdate(ctx, leaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if lease.OrganizationID != orgID {
			return ErrNotFound
		}

		hasSuccessor, err := leases.HasSuccessor(ctx, lease.ID)
		if err != nil {
			return err
		}
		if !lease.MayDelete() || hasSuccessor {
			return NewValidationError("only draft leases outside a renewal chain can be deleted")
		}

		if err := leases.Delete(ctx, lease.ID); err != nil {
			return err
		}

		remaining, err := leases.CountByTenant(ctx, lease.TenantID, lease.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			tenants := repository.NewTenantRepository(tx)
			if err := tenants.UpdateStatus(ctx, lease.TenantID, models.TenantStatusLead); err != nil {
				return fmt.Errorf("reverting tenant status: %w", err)
			}
			fx.logActivity(ActivityEntry{
				Type:        models.ActivityTenantStatusChanged,
				Description: fmt.Sprintf("Tenant #%d reverted to lead: last lease deleted", lease.TenantID),
				TenantID:    &lease.TenantID,
			})
		}

		fx.logActivity(ActivityEntry{
			Type:        models.ActivityLeaseTerminated,
			Description: fmt.Sprintf("Lease #%d deleted", lease.ID),
			TenantID:    &lease.TenantID,
			UnitID:      &lease.UnitID,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.runEffects(orgID, userID, fx)
	return nil
}
