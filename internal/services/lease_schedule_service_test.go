package services

import (
	"testing"
	"time"

	"github.com/rentora/rentora-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGracePeriodDeadline(t *testing.T) {
	s := NewLeaseScheduleService()

	start := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	deadline := s.GracePeriodDeadline(start, 5)

	assert.Equal(t, time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC), deadline)
}

func TestIsOverdue_StrictBoundary(t *testing.T) {
	s := NewLeaseScheduleService()

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	grace := 5
	deadline := start.AddDate(0, 0, grace)

	// Exactly on the deadline is still on time
	assert.False(t, s.IsOverdue(start, &grace, deadline))

	// One second past the deadline is overdue
	assert.True(t, s.IsOverdue(start, &grace, deadline.Add(time.Second)))
}

func TestIsOverdue_NilGraceNeverExpires(t *testing.T) {
	s := NewLeaseScheduleService()

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	farFuture := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, s.IsOverdue(start, nil, farFuture))
}

func TestAutoRenewalDeadline(t *testing.T) {
	s := NewLeaseScheduleService()

	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), s.AutoRenewalDeadline(end, 10))
}

func TestRenewalPeriod_Monthly_JanuaryRollover(t *testing.T) {
	s := NewLeaseScheduleService()

	// Non-leap year: period starting Feb 1 runs through Feb 28
	start, end := s.RenewalPeriod(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), models.PaymentCycleMonthly)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), end)

	// Leap year: through Feb 29
	start, end = s.RenewalPeriod(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), models.PaymentCycleMonthly)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)
}

func TestRenewalPeriod_Daily(t *testing.T) {
	s := NewLeaseScheduleService()

	start, end := s.RenewalPeriod(time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), models.PaymentCycleDaily)
	assert.Equal(t, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC), end)
}

func TestRenewalPeriod_Annual_LeapDayClamp(t *testing.T) {
	s := NewLeaseScheduleService()

	// Period starting Feb 29 in a leap year ends Feb 27 the next year
	// (Feb 29 + 1 year clamps to Feb 28, minus one day)
	start, end := s.RenewalPeriod(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), models.PaymentCycleAnnual)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC), end)
}

func TestRenewalPeriod_Monthly_MidMonth(t *testing.T) {
	s := NewLeaseScheduleService()

	start, end := s.RenewalPeriod(time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC), models.PaymentCycleMonthly)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC), end)
}

func TestIsPaymentDueOn_Daily(t *testing.T) {
	s := NewLeaseScheduleService()

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, s.IsPaymentDueOn(start, models.PaymentCycleDaily, start.AddDate(0, 0, 7)))
	assert.False(t, s.IsPaymentDueOn(start, models.PaymentCycleDaily, start.AddDate(0, 0, -1)))
}

func TestIsPaymentDueOn_Monthly_ShortMonths(t *testing.T) {
	s := NewLeaseScheduleService()

	// Lease starting on the 31st falls due on the last day of short months
	start := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)

	assert.True(t, s.IsPaymentDueOn(start, models.PaymentCycleMonthly, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.IsPaymentDueOn(start, models.PaymentCycleMonthly, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.IsPaymentDueOn(start, models.PaymentCycleMonthly, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsPaymentDueOn(start, models.PaymentCycleMonthly, time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsPaymentDueOn(start, models.PaymentCycleMonthly, time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)))
}

func TestIsPaymentDueOn_Annual(t *testing.T) {
	s := NewLeaseScheduleService()

	start := time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, s.IsPaymentDueOn(start, models.PaymentCycleAnnual, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsPaymentDueOn(start, models.PaymentCycleAnnual, time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsPaymentDueOn(start, models.PaymentCycleAnnual, time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC)))
}
