package services

import (
	"time"

	"github.com/rentora/rentora-api/internal/models"
)

// LeaseScheduleService computes grace-period deadlines, renewal-notice
// deadlines and renewal periods. Every method takes the reference time as a
// parameter so callers (and tests) control the clock; nothing here reads
// time.Now.
//
// Calendar-day addition uses wall-clock semantics: adding days across a DST
// transition keeps the original time-of-day rather than an exact multiple of
// 24 hours.
type LeaseScheduleService struct{}

// NewLeaseScheduleService creates a new schedule service
func NewLeaseScheduleService() *LeaseScheduleService {
	return &LeaseScheduleService{}
}

// GracePeriodDeadline returns the last instant at which payment is still on
// time: startDate + gracePeriodDays, preserving startDate's time-of-day.
func (s *LeaseScheduleService) GracePeriodDeadline(startDate time.Time, gracePeriodDays int) time.Time {
	return startDate.AddDate(0, 0, gracePeriodDays)
}

// IsOverdue reports whether an unpaid lease has passed its grace deadline at
// the given instant. A nil grace period never expires; the boundary is
// strict, so a payment landing exactly on the deadline is on time.
func (s *LeaseScheduleService) IsOverdue(startDate time.Time, gracePeriodDays *int, now time.Time) bool {
	if gracePeriodDays == nil {
		return false
	}
	return now.After(s.GracePeriodDeadline(startDate, *gracePeriodDays))
}

// AutoRenewalDeadline returns the instant after which auto-renewal settings
// freeze and the lease becomes eligible for renewal: endDate − noticeDays.
func (s *LeaseScheduleService) AutoRenewalDeadline(endDate time.Time, noticeDays int) time.Time {
	return endDate.AddDate(0, 0, -noticeDays)
}

// RenewalPeriod computes the successor lease's interval from the original
// end date: one billing period starting the day after the original ends.
// Month and year steps clamp to the last day of the target month, so a
// period starting Jan 31 runs through the last day of February.
func (s *LeaseScheduleService) RenewalPeriod(originalEndDate time.Time, paymentCycle string) (time.Time, time.Time) {
	start := originalEndDate.AddDate(0, 0, 1)

	var end time.Time
	switch paymentCycle {
	case models.PaymentCycleDaily:
		end = start.AddDate(0, 0, 1)
	case models.PaymentCycleAnnual:
		end = addYearsClamped(start, 1).AddDate(0, 0, -1)
	default: // monthly
		end = addMonthsClamped(start, 1).AddDate(0, 0, -1)
	}

	return start, end
}

// IsPaymentDueOn reports whether a payment falls due on targetDate for a
// lease that started on leaseStart, at day granularity.
func (s *LeaseScheduleService) IsPaymentDueOn(leaseStart time.Time, paymentCycle string, targetDate time.Time) bool {
	start := truncateToDay(leaseStart)
	target := truncateToDay(targetDate)

	if target.Before(start) {
		return false
	}

	switch paymentCycle {
	case models.PaymentCycleDaily:
		return true
	case models.PaymentCycleAnnual:
		return target.Month() == start.Month() && target.Day() == start.Day()
	default: // monthly
		// Leases starting on the 29th-31st fall due on the last day of
		// shorter months.
		due := start.Day()
		if last := lastDayOfMonth(target); due > last {
			due = last
		}
		return target.Day() == due
	}
}

// addMonthsClamped adds calendar months, clamping the day to the target
// month's length instead of letting Jan 31 + 1 month normalize into March.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := lastDayOfMonth(firstOfTarget); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// addYearsClamped adds calendar years, mapping Feb 29 to Feb 28 in
// non-leap target years.
func addYearsClamped(t time.Time, years int) time.Time {
	return addMonthsClamped(t, years*12)
}

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstOfNext.AddDate(0, 0, -1).Day()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
