package models

import (
	"time"
)

// ActivityLog is the audit trail entry written alongside lease mutations.
// Writes are best-effort: a failed activity write never fails the mutation.
type ActivityLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	UserID         uint      `gorm:"index" json:"user_id"` // 0 for system/cron actors
	Type           string    `gorm:"not null;index" json:"type"`
	Description    string    `gorm:"type:text" json:"description"`
	TenantID       *uint     `gorm:"index" json:"tenant_id"`
	PropertyID     *uint     `gorm:"index" json:"property_id"`
	UnitID         *uint     `gorm:"index" json:"unit_id"`
	LeaseID        *uint     `gorm:"index" json:"lease_id"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Activity type constants
const (
	ActivityLeaseCreated        = "LEASE_CREATED"
	ActivityLeaseUpdated        = "LEASE_UPDATED"
	ActivityLeaseTerminated     = "LEASE_TERMINATED"
	ActivityTenantStatusChanged = "TENANT_STATUS_CHANGED"
)
