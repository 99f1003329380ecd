package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rentora/rentora-api/internal/repository"
)

// AvailabilityResult is the outcome of an availability check
type AvailabilityResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// AvailabilityService decides whether a candidate interval may occupy a
// unit. Auto-renewing leases have no fixed end in practice (they keep
// regenerating), so they block any booking that begins before they are
// done rather than participating in ordinary interval comparison.
type AvailabilityService struct {
	leaseRepo repository.LeaseRepository
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(leaseRepo repository.LeaseRepository) *AvailabilityService {
	return &AvailabilityService{leaseRepo: leaseRepo}
}

// CheckAvailability validates a candidate [startDate, endDate] interval on a
// unit against the other draft/active leases. excludeLeaseID lets a lease
// skip itself when re-validating its own edited dates.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, unitID uint, startDate, endDate time.Time, excludeLeaseID *uint) (*AvailabilityResult, error) {
	if !startDate.Before(endDate) {
		return &AvailabilityResult{Valid: false, Reason: "End date must be after start date"}, nil
	}

	blocking, err := s.leaseRepo.FindBlocking(ctx, unitID, excludeLeaseID)
	if err != nil {
		return nil, fmt.Errorf("checking unit availability: %w", err)
	}

	// Auto-renew leases take precedence over plain overlap: they block any
	// candidate that begins before their rolling end.
	for _, other := range blocking {
		if other.IsAutoRenew && !other.StartDate.After(endDate) {
			return &AvailabilityResult{
				Valid: false,
				Reason: fmt.Sprintf("Unit is blocked by an auto-renewing lease (#%d) starting %s",
					other.ID, other.StartDate.Format("2006-01-02")),
			}, nil
		}
	}

	for _, other := range blocking {
		if other.IsAutoRenew {
			continue
		}
		if !other.StartDate.After(endDate) && !other.EndDate.Before(startDate) {
			return &AvailabilityResult{
				Valid: false,
				Reason: fmt.Sprintf("Unit already has an overlapping %s lease (#%d) from %s to %s",
					other.Status, other.ID,
					other.StartDate.Format("2006-01-02"), other.EndDate.Format("2006-01-02")),
			}, nil
		}
	}

	return &AvailabilityResult{Valid: true}, nil
}

// EnsureAvailable runs CheckAvailability and converts a rejection into a
// ConflictError so mutation paths can return it directly.
func (s *AvailabilityService) EnsureAvailable(ctx context.Context, unitID uint, startDate, endDate time.Time, excludeLeaseID *uint) error {
	result, err := s.CheckAvailability(ctx, unitID, startDate, endDate, excludeLeaseID)
	if err != nil {
		return err
	}
	if !result.Valid {
		return NewConflictError(result.Reason)
	}
	return nil
}
