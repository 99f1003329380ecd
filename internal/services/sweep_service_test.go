package services

import (
	"context"
	"testing"
	"time"

	"github.com/rentora/rentora-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelUnpaidDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Unpaid and 10 days past a 5-day grace period: cancelled
	overdue := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.StartDate = now.AddDate(0, 0, -15)
		l.GracePeriodDays = intPtr(5)
	})

	// Still within grace: untouched
	withinGrace := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.UnitID = env.seedUnit(t, "Unit B").ID
		l.StartDate = now.AddDate(0, 0, -2)
		l.GracePeriodDays = intPtr(5)
	})

	// Paid: untouched even though past the deadline
	paidAt := now.AddDate(0, 0, -12)
	paid := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.UnitID = env.seedUnit(t, "Unit C").ID
		l.StartDate = now.AddDate(0, 0, -15)
		l.GracePeriodDays = intPtr(5)
		l.Status = models.LeaseStatusActive
		l.PaidAt = &paidAt
		l.PaymentStatus = models.LeasePaymentPaid
	})

	// No grace period configured: never auto-cancelled
	noGrace := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.UnitID = env.seedUnit(t, "Unit D").ID
		l.StartDate = now.AddDate(0, 0, -60)
	})

	result, err := env.svcs.Sweep.CancelUnpaidDrafts(ctx, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.NotEmpty(t, result.RunID)

	assert.Equal(t, models.LeaseStatusCancelled, env.reloadLease(t, overdue.ID).Status)
	assert.Equal(t, models.LeaseStatusDraft, env.reloadLease(t, withinGrace.ID).Status)
	assert.Equal(t, models.LeaseStatusActive, env.reloadLease(t, paid.ID).Status)
	assert.Equal(t, models.LeaseStatusDraft, env.reloadLease(t, noGrace.ID).Status)

	// Cancellation itself fires no notification; overdue-payment notices are
	// the reminder sweep's job.
	var notifications []models.Notification
	require.NoError(t, env.db.Find(&notifications).Error)
	assert.Empty(t, notifications)

	// Idempotent: the second run finds nothing to cancel
	result, err = env.svcs.Sweep.CancelUnpaidDrafts(ctx, nil, now)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
}

func TestExpireLeases_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	env.db.Model(&models.Tenant{}).Where("id = ?", env.tenant.ID).
		Update("status", models.TenantStatusActive)

	expired := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.StartDate = now.AddDate(0, -2, 0)
		l.EndDate = now.AddDate(0, 0, -1)
	})
	running := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.UnitID = env.seedUnit(t, "Unit B").ID
		l.TenantID = env.seedTenant(t, "Bob Renter", models.TenantStatusActive).ID
		l.EndDate = now.AddDate(0, 1, 0)
	})

	result, err := env.svcs.Sweep.ExpireLeases(ctx, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Succeeded)

	assert.Equal(t, models.LeaseStatusEnded, env.reloadLease(t, expired.ID).Status)
	assert.Equal(t, models.LeaseStatusActive, env.reloadLease(t, running.ID).Status)
	assert.Equal(t, models.TenantStatusExpired, env.reloadTenant(t, env.tenant.ID).Status)

	// Re-running immediately ends nothing: eligibility is state-derived
	result, err = env.svcs.Sweep.ExpireLeases(ctx, nil, now)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
}

func TestProcessRenewals_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Started 40 days ago, ends in 3 days, 10 days notice: the renewal
	// deadline passed a week ago.
	original := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.StartDate = now.AddDate(0, 0, -40)
		l.EndDate = now.AddDate(0, 0, 3)
		l.PaymentCycle = models.PaymentCycleMonthly
		l.AutoRenewalNoticeDays = intPtr(10)
	})

	result, err := env.svcs.Sweep.ProcessRenewals(ctx, &env.org.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Details, 1)
	require.NotNil(t, result.Details[0].NewLeaseID)

	successor := env.reloadLease(t, *result.Details[0].NewLeaseID)
	assert.Equal(t, models.LeaseStatusDraft, successor.Status)
	assert.WithinDuration(t, now.AddDate(0, 0, 4), successor.StartDate, time.Second,
		"successor starts the day after the original ends")
	assert.Equal(t, models.LeaseStatusEnded, env.reloadLease(t, original.ID).Status)

	// Second run: the chain link makes the original ineligible
	result, err = env.svcs.Sweep.ProcessRenewals(ctx, &env.org.ID, now)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
}

func TestProcessRenewals_ConflictReportedPerLease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	original := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.EndDate = now.AddDate(0, 0, 2)
		l.PaymentCycle = models.PaymentCycleMonthly
		l.AutoRenewalNoticeDays = intPtr(10)
	})
	// Manual booking sitting on the renewal interval
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.StartDate = now.AddDate(0, 0, 5)
		l.EndDate = now.AddDate(0, 1, 5)
	})

	result, err := env.svcs.Sweep.ProcessRenewals(ctx, &env.org.ID, now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Details, 1)
	assert.False(t, result.Details[0].Success)
	assert.Equal(t, "unit not available for renewal", result.Details[0].Error)
	assert.Equal(t, models.LeaseStatusActive, env.reloadLease(t, original.ID).Status)
}

func TestDispatchReminders_LeaseExpiring(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, env.db.Create(&models.NotificationRule{
		OrganizationID: env.org.ID,
		Trigger:        models.TriggerLeaseExpiring,
		DaysOffset:     3,
		Active:         true,
	}).Error)

	// Ends exactly three days out: notified
	ending := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.EndDate = now.AddDate(0, 0, 3)
	})
	// Ends later: not notified
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.UnitID = env.seedUnit(t, "Unit B").ID
		l.EndDate = now.AddDate(0, 0, 10)
	})

	result, err := env.svcs.Sweep.DispatchReminders(ctx, &env.org.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Succeeded)

	var notifications []models.Notification
	require.NoError(t, env.db.Where("trigger = ?", models.TriggerLeaseExpiring).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.NotNil(t, notifications[0].LeaseID)
	assert.Equal(t, ending.ID, *notifications[0].LeaseID)
}

func TestDispatchReminders_PaymentLate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, env.db.Create(&models.NotificationRule{
		OrganizationID: env.org.ID,
		Trigger:        models.TriggerPaymentLate,
		Active:         true,
	}).Error)

	// Overdue unpaid draft: notified
	overdue := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.StartDate = now.AddDate(0, 0, -20)
		l.GracePeriodDays = intPtr(5)
	})
	// Within grace: silent
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.UnitID = env.seedUnit(t, "Unit B").ID
		l.StartDate = now.AddDate(0, 0, -2)
		l.GracePeriodDays = intPtr(5)
	})

	result, err := env.svcs.Sweep.DispatchReminders(ctx, &env.org.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	var notifications []models.Notification
	require.NoError(t, env.db.Where("trigger = ?", models.TriggerPaymentLate).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, overdue.ID, *notifications[0].LeaseID)
}

func TestDispatchReminders_PaymentReminderDueDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// Fixed clock keeps the due-date arithmetic deterministic
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, env.db.Create(&models.NotificationRule{
		OrganizationID: env.org.ID,
		Trigger:        models.TriggerPaymentReminder,
		DaysOffset:     2,
		Active:         true,
	}).Error)

	// Monthly lease started on the 12th: due March 12, which is now+2d
	due := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.StartDate = time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
		l.EndDate = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		l.PaymentCycle = models.PaymentCycleMonthly
	})
	// Started on the 20th: not due on the target date
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.UnitID = env.seedUnit(t, "Unit B").ID
		l.StartDate = time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
		l.EndDate = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		l.PaymentCycle = models.PaymentCycleMonthly
	})

	result, err := env.svcs.Sweep.DispatchReminders(ctx, &env.org.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	var notifications []models.Notification
	require.NoError(t, env.db.Where("trigger = ?", models.TriggerPaymentReminder).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, due.ID, *notifications[0].LeaseID)
}
