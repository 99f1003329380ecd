package services

import (
	"context"
	"fmt"

	"github.com/rentora/rentora-api/internal/models"
	"github.com/rentora/rentora-api/internal/repository"
	"github.com/rentora/rentora-api/pkg/logger"
)

// NotificationService turns lease-engine triggers into notification rows.
// Actual delivery over email/WhatsApp/Telegram is handled by external
// senders reading the notifications table; creating the row is the engine's
// hand-off point.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	leaseRepo        repository.LeaseRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repository.NotificationRepository, leaseRepo repository.LeaseRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		leaseRepo:        leaseRepo,
	}
}

// ProcessTrigger fires a trigger for one lease. Batch sweeps inspect the
// returned counts; interactive paths call it best-effort after commit.
func (s *NotificationService) ProcessTrigger(ctx context.Context, orgID uint, trigger string, leaseID uint) *models.TriggerResult {
	result := &models.TriggerResult{Processed: 1}

	lease, err := s.leaseRepo.FindByIDWithDetails(ctx, leaseID)
	if err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("lease %d: %v", leaseID, err))
		return result
	}

	title, message := s.composeMessage(trigger, lease)
	notification := &models.Notification{
		OrganizationID: orgID,
		TenantID:       lease.TenantID,
		LeaseID:        &lease.ID,
		Trigger:        trigger,
		Title:          title,
		Message:        message,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("lease %d: %v", leaseID, err))
		return result
	}

	result.Sent++
	return result
}

// DispatchAsync fires a trigger without surfacing the result. Used from
// mutation paths after the owning transaction commits: a failure is logged
// and never affects the lease state change.
func (s *NotificationService) DispatchAsync(ctx context.Context, orgID uint, trigger string, leaseID uint) {
	result := s.ProcessTrigger(ctx, orgID, trigger, leaseID)
	if result.Failed > 0 {
		logger.Warn("notification trigger failed",
			"trigger", trigger,
			"lease_id", leaseID,
			"errors", result.Errors,
		)
	}
}

func (s *NotificationService) composeMessage(trigger string, lease *models.LeaseAgreement) (string, string) {
	unitName := lease.Unit.Name
	switch trigger {
	case models.TriggerPaymentReminder:
		return "Payment reminder",
			fmt.Sprintf("Rent of %.2f for unit %s is due soon.", lease.RentAmount, unitName)
	case models.TriggerPaymentLate:
		return "Payment overdue",
			fmt.Sprintf("Payment for unit %s is overdue. The lease may be cancelled.", unitName)
	case models.TriggerPaymentConfirmed:
		return "Payment confirmed",
			fmt.Sprintf("Payment for unit %s has been received. The lease is now active.", unitName)
	case models.TriggerLeaseExpiring:
		return "Lease expiring",
			fmt.Sprintf("The lease for unit %s ends on %s.", unitName, lease.EndDate.Format("2006-01-02"))
	case models.TriggerLeaseExpired:
		return "Lease ended",
			fmt.Sprintf("The lease for unit %s has ended.", unitName)
	default:
		return "Lease notification",
			fmt.Sprintf("Update on the lease for unit %s.", unitName)
	}
}
