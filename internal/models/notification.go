package models

import (
	"time"
)

// Notification trigger constants
const (
	TriggerPaymentReminder  = "payment_reminder"
	TriggerPaymentLate      = "payment_late"
	TriggerPaymentConfirmed = "payment_confirmed"
	TriggerLeaseExpiring    = "lease_expiring"
	TriggerLeaseExpired     = "lease_expired"
)

// NotificationRule configures when a trigger fires relative to a lease date.
// DaysOffset is interpreted per trigger: days before the payment due date for
// payment_reminder, days before the end date for lease_expiring.
type NotificationRule struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	Trigger        string    `gorm:"not null;index" json:"trigger"`
	DaysOffset     int       `gorm:"not null;default:0" json:"days_offset"`
	Channel        string    `gorm:"default:email" json:"channel"`
	Active         bool      `gorm:"default:true;index" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for NotificationRule
func (NotificationRule) TableName() string {
	return "notification_rules"
}

// Notification records a fired trigger for a lease. Delivery over the
// configured channel is handled by external senders; this row is the
// engine's hand-off point.
type Notification struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OrganizationID uint       `gorm:"not null;index" json:"organization_id"`
	TenantID       uint       `gorm:"not null;index" json:"tenant_id"`
	LeaseID        *uint      `gorm:"index" json:"lease_id"`
	Trigger        string     `gorm:"not null;index" json:"trigger"`
	Title          string     `gorm:"not null" json:"title"`
	Message        string     `gorm:"not null" json:"message"`
	SentAt         *time.Time `json:"sent_at"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// TriggerResult summarizes a ProcessTrigger invocation
type TriggerResult struct {
	Processed int      `json:"processed"`
	Sent      int      `json:"sent"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
