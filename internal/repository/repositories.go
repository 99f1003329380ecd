package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Lease            LeaseRepository
	Tenant           TenantRepository
	Unit             UnitRepository
	Notification     NotificationRepository
	NotificationRule NotificationRuleRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Lease:            NewLeaseRepository(db),
		Tenant:           NewTenantRepository(db),
		Unit:             NewUnitRepository(db),
		Notification:     NewNotificationRepository(db),
		NotificationRule: NewNotificationRuleRepository(db),
	}
}
