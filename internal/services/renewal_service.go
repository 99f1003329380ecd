package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rentora/rentora-api/internal/jobs"
	"github.com/rentora/rentora-api/internal/models"
	"github.com/rentora/rentora-api/internal/repository"
	"github.com/rentora/rentora-api/internal/statemachine"
	"gorm.io/gorm"
)

// errRenewalConflict aborts the renewal transaction when the computed
// interval is taken. Translated to a nil result, not an error.
var errRenewalConflict = errors.New("renewal interval not available")

// RenewalService creates successor leases for expiring auto-renew leases.
//
// A renewal ends the original and creates a draft for the next billing
// period in one transaction, linked through renewed_from_id. Ending by
// supersession does not roll the tenant to expired: the successor draft
// keeps the tenancy alive.
type RenewalService struct {
	db            *gorm.DB
	leaseRepo     repository.LeaseRepository
	schedule      *LeaseScheduleService
	activity      *ActivityService
	notifications *NotificationService
	worker        *jobs.Worker
}

// NewRenewalService creates a new renewal service
func NewRenewalService(
	db *gorm.DB,
	leaseRepo repository.LeaseRepository,
	schedule *LeaseScheduleService,
	activity *ActivityService,
	notifications *NotificationService,
	worker *jobs.Worker,
) *RenewalService {
	return &RenewalService{
		db:            db,
		leaseRepo:     leaseRepo,
		schedule:      schedule,
		activity:      activity,
		notifications: notifications,
		worker:        worker,
	}
}

// EligibleRenewals returns the active auto-renew leases whose notice
// deadline has passed and that have no successor yet. Eligibility is
// derived from current state on every call, never from a processed flag,
// so the renewal sweep stays idempotent.
func (s *RenewalService) EligibleRenewals(ctx context.Context, orgID *uint, now time.Time) ([]models.LeaseAgreement, error) {
	candidates, err := s.leaseRepo.FindRenewalCandidates(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("loading renewal candidates: %w", err)
	}

	eligible := make([]models.LeaseAgreement, 0, len(candidates))
	for _, lease := range candidates {
		deadline := s.schedule.AutoRenewalDeadline(lease.EndDate, *lease.AutoRenewalNoticeDays)
		if !now.Before(deadline) {
			eligible = append(eligible, lease)
		}
	}
	return eligible, nil
}

// CreateRenewal creates the successor draft for one lease and ends the
// original atomically. Returns (nil, nil) when the computed renewal
// interval is no longer available, so callers can report a per-lease
// conflict instead of an error.
func (s *RenewalService) CreateRenewal(ctx context.Context, originalID uint, now time.Time) (*models.LeaseAgreement, error) {
	var successor *models.LeaseAgreement

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leases := repository.NewLeaseRepository(tx)

		original, err := leases.FindByIDForUpdate(ctx, originalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if original.Status != models.LeaseStatusActive {
			return NewValidationError(fmt.Sprintf("cannot renew a %s lease", original.Status))
		}

		renewed, err := leases.HasSuccessor(ctx, original.ID)
		if err != nil {
			return err
		}
		if renewed {
			return NewValidationError("lease has already been renewed")
		}

		start, end := s.schedule.RenewalPeriod(original.EndDate, original.PaymentCycle)

		// A manual lease may have taken the renewal interval since the
		// original was booked.
		txAvailability := NewAvailabilityService(leases)
		result, err := txAvailability.CheckAvailability(ctx, original.UnitID, start, end, &original.ID)
		if err != nil {
			return err
		}
		if !result.Valid {
			return errRenewalConflict
		}

		successor = &models.LeaseAgreement{
			OrganizationID:        original.OrganizationID,
			UnitID:                original.UnitID,
			TenantID:              original.TenantID,
			StartDate:             start,
			EndDate:               end,
			PaymentCycle:          original.PaymentCycle,
			RentAmount:            original.RentAmount,
			DepositAmount:         original.DepositAmount,
			DepositStatus:         original.DepositStatus,
			Status:                models.LeaseStatusDraft,
			PaymentStatus:         models.LeasePaymentPending,
			IsAutoRenew:           original.IsAutoRenew,
			GracePeriodDays:       original.GracePeriodDays,
			AutoRenewalNoticeDays: original.AutoRenewalNoticeDays,
			RenewedFromID:         &original.ID,
		}
		if err := leases.Create(ctx, successor); err != nil {
			return err
		}

		machine := statemachine.NewLeaseFSM(original)
		if err := machine.End(ctx); err != nil {
			return NewValidationError(err.Error())
		}
		return leases.Update(ctx, original)
	})
	if err != nil {
		if errors.Is(err, errRenewalConflict) || IsConflictError(mapDBError(err)) {
			return nil, nil
		}
		return nil, err
	}

	orgID := successor.OrganizationID
	newID := successor.ID
	s.worker.Enqueue("renewal-side-effects", func(jobCtx context.Context) error {
		s.activity.Log(jobCtx, orgID, 0, ActivityEntry{
			Type:        models.ActivityLeaseCreated,
			Description: fmt.Sprintf("Lease #%d auto-renewed as lease #%d", originalID, newID),
			TenantID:    &successor.TenantID,
			UnitID:      &successor.UnitID,
			LeaseID:     &newID,
		})
		s.notifications.DispatchAsync(jobCtx, orgID, models.TriggerLeaseExpired, originalID)
		return nil
	})

	return successor, nil
}
