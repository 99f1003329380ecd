package handlers

import (
	"github.com/rentora/rentora-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Lease    *LeaseHandler
	Renewal  *RenewalHandler
	Cron     *CronHandler
	Activity *ActivityHandler
	Job      *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Lease:    NewLeaseHandler(svcs.Lease, svcs.Activity),
		Renewal:  NewRenewalHandler(svcs.Renewal, svcs.Sweep),
		Cron:     NewCronHandler(svcs.Sweep),
		Activity: NewActivityHandler(svcs.Activity),
		Job:      NewJobHandler(svcs.Job),
	}
}
