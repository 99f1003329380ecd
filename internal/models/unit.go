package models

import (
	"time"
)

// Unit is a bookable rental unit within a property. Leases reserve a unit
// for a date interval; the availability validator guards against two
// draft/active leases occupying the same unit at the same time.
type Unit struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	PropertyID     uint      `gorm:"not null;index" json:"property_id"`
	Name           string    `gorm:"not null" json:"name"`
	Notes          *string   `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// TableName specifies the table name for Unit
func (Unit) TableName() string {
	return "units"
}
