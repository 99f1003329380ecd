package services

import (
	"github.com/rentora/rentora-api/internal/jobs"
	"github.com/rentora/rentora-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Schedule     *LeaseScheduleService
	Availability *AvailabilityService
	Activity     *ActivityService
	Notification *NotificationService
	Lease        *LeaseService
	Renewal      *RenewalService
	Sweep        *SweepService
	Job          *JobService
}

// NewServices wires all service instances
func NewServices(db *gorm.DB, repos *repository.Repositories, worker *jobs.Worker) *Services {
	schedule := NewLeaseScheduleService()
	availability := NewAvailabilityService(repos.Lease)
	activity := NewActivityService(db)
	notification := NewNotificationService(repos.Notification, repos.Lease)
	lease := NewLeaseService(db, repos, availability, schedule, activity, notification, worker)
	renewal := NewRenewalService(db, repos.Lease, schedule, activity, notification, worker)
	sweep := NewSweepService(repos.Lease, repos.NotificationRule, lease, renewal, schedule, notification)

	return &Services{
		Schedule:     schedule,
		Availability: availability,
		Activity:     activity,
		Notification: notification,
		Lease:        lease,
		Renewal:      renewal,
		Sweep:        sweep,
		Job:          NewJobService(worker),
	}
}
