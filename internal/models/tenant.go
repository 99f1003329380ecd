package models

import (
	"time"
)

// Tenant represents a renter. Status is derived from the tenant's leases:
// ACTIVE while at least one lease is active, EXPIRED when the last active
// lease ends, back to LEAD when their only lease is deleted.
type Tenant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	FullName       string    `gorm:"not null" json:"full_name"`
	Email          *string   `gorm:"index" json:"email"`
	Phone          *string   `json:"phone"`
	Status         string    `gorm:"default:lead;index" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}

// Tenant status constants
const (
	TenantStatusLead    = "lead"
	TenantStatusActive  = "active"
	TenantStatusExpired = "expired"
)
