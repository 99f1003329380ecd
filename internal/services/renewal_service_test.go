package services

import (
	"context"
	"testing"
	"time"

	"github.com/rentora/rentora-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibleRenewals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Deadline passed 7 days ago: eligible
	eligible := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.StartDate = now.AddDate(0, 0, -40)
		l.EndDate = now.AddDate(0, 0, 3)
		l.AutoRenewalNoticeDays = intPtr(10)
	})

	// Deadline still ahead: not eligible
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.UnitID = env.seedUnit(t, "Unit B").ID
		l.EndDate = now.AddDate(0, 2, 0)
		l.AutoRenewalNoticeDays = intPtr(10)
	})

	// Not auto-renew: never eligible
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.UnitID = env.seedUnit(t, "Unit C").ID
		l.EndDate = now.AddDate(0, 0, 1)
	})

	leases, err := env.svcs.Renewal.EligibleRenewals(ctx, &env.org.ID, now)
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, eligible.ID, leases[0].ID)
}

func TestEligibleRenewals_SkipsAlreadyRenewed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	renewed := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.EndDate = now.AddDate(0, 0, 1)
		l.AutoRenewalNoticeDays = intPtr(10)
	})
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.StartDate = now.AddDate(0, 0, 2)
		l.EndDate = now.AddDate(0, 1, 2)
		l.RenewedFromID = &renewed.ID
	})

	leases, err := env.svcs.Renewal.EligibleRenewals(ctx, &env.org.ID, now)
	require.NoError(t, err)
	assert.Empty(t, leases)
}

func TestCreateRenewal_ChainIntegrity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	original := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.StartDate = now.AddDate(0, -1, 0)
		l.EndDate = now.AddDate(0, 0, 3)
		l.PaymentCycle = models.PaymentCycleMonthly
		l.RentAmount = 900
		l.GracePeriodDays = intPtr(5)
		l.AutoRenewalNoticeDays = intPtr(10)
		l.DepositAmount = floatPtr(400)
	})

	successor, err := env.svcs.Renewal.CreateRenewal(ctx, original.ID, now)
	require.NoError(t, err)
	require.NotNil(t, successor)

	// Successor is a draft for the next billing period, linked back
	assert.Equal(t, models.LeaseStatusDraft, successor.Status)
	require.NotNil(t, successor.RenewedFromID)
	assert.Equal(t, original.ID, *successor.RenewedFromID)
	assert.True(t, successor.StartDate.Equal(original.EndDate.AddDate(0, 0, 1)),
		"successor starts the day after the original ends")
	assert.Equal(t, original.TenantID, successor.TenantID)
	assert.Equal(t, original.UnitID, successor.UnitID)
	assert.Equal(t, 900.0, successor.RentAmount)
	assert.True(t, successor.IsAutoRenew)
	require.NotNil(t, successor.GracePeriodDays)
	assert.Equal(t, 5, *successor.GracePeriodDays)

	// Original ended by supersession
	assert.Equal(t, models.LeaseStatusEnded, env.reloadLease(t, original.ID).Status)

	// The inverse relation resolves to the successor
	reloaded, err := env.svcs.Lease.Get(ctx, env.org.ID, original.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.RenewedTo)
	assert.Equal(t, successor.ID, reloaded.RenewedTo.ID)
}

func TestCreateRenewal_SupersessionKeepsTenantActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	env.db.Model(&models.Tenant{}).Where("id = ?", env.tenant.ID).
		Update("status", models.TenantStatusActive)

	original := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.EndDate = now.AddDate(0, 0, 2)
		l.AutoRenewalNoticeDays = intPtr(10)
	})

	_, err := env.svcs.Renewal.CreateRenewal(ctx, original.ID, now)
	require.NoError(t, err)

	// Ending by renewal must not expire the tenant: the successor draft
	// keeps the tenancy alive.
	assert.Equal(t, models.TenantStatusActive, env.reloadTenant(t, env.tenant.ID).Status)
}

func TestCreateRenewal_ConflictReturnsNilWithoutMutation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	original := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.EndDate = now.AddDate(0, 0, 3)
		l.PaymentCycle = models.PaymentCycleMonthly
		l.AutoRenewalNoticeDays = intPtr(10)
	})

	// A manual booking already occupies the renewal interval
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.StartDate = now.AddDate(0, 0, 10)
		l.EndDate = now.AddDate(0, 1, 10)
	})

	successor, err := env.svcs.Renewal.CreateRenewal(ctx, original.ID, now)
	require.NoError(t, err)
	assert.Nil(t, successor)

	// Original untouched
	assert.Equal(t, models.LeaseStatusActive, env.reloadLease(t, original.ID).Status)
}

func TestCreateRenewal_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Draft leases cannot renew
	draft := env.seedLease(t, nil)
	_, err := env.svcs.Renewal.CreateRenewal(ctx, draft.ID, now)
	assert.True(t, IsValidationError(err))

	// Already renewed
	renewed := env.seedLease(t, func(l *models.LeaseAgreement) {
		l.Status = models.LeaseStatusActive
		l.IsAutoRenew = true
		l.UnitID = env.seedUnit(t, "Unit B").ID
		l.EndDate = now.AddDate(0, 0, 1)
		l.AutoRenewalNoticeDays = intPtr(10)
	})
	env.seedLease(t, func(l *models.LeaseAgreement) {
		l.UnitID = renewed.UnitID
		l.StartDate = now.AddDate(0, 0, 2)
		l.EndDate = now.AddDate(0, 1, 2)
		l.RenewedFromID = &renewed.ID
	})
	_, err = env.svcs.Renewal.CreateRenewal(ctx, renewed.ID, now)
	assert.True(t, IsValidationError(err))

	_, err = env.svcs.Renewal.CreateRenewal(ctx, 99999, now)
	assert.ErrorIs(t, err, ErrNotFound)
}
