package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaseAgreement is the central entity of the lease lifecycle engine.
//
// A lease occupies a unit for a half-open [start, end] interval, moves
// through draft → active → ended (or draft → cancelled), and may spawn a
// successor draft through the auto-renewal chain. RenewedFromID carries a
// unique index so a lease can have at most one successor.
type LeaseAgreement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	GUID           string    `gorm:"uniqueIndex;size:36" json:"guid"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	UnitID         uint      `gorm:"not null;index" json:"unit_id"`
	TenantID       uint      `gorm:"not null;index" json:"tenant_id"`
	StartDate      time.Time `gorm:"not null;index" json:"start_date"`
	EndDate        time.Time `gorm:"not null;index" json:"end_date"`

	PaymentCycle  string   `gorm:"not null;default:monthly" json:"payment_cycle"`
	RentAmount    float64  `gorm:"type:decimal;not null" json:"rent_amount"`
	DepositAmount *float64 `gorm:"type:decimal" json:"deposit_amount"`
	DepositStatus *string  `gorm:"index" json:"deposit_status"`

	Status string `gorm:"default:draft;index" json:"status"`

	PaidAt        *time.Time `json:"paid_at"`
	PaymentStatus string     `gorm:"default:pending" json:"payment_status"`
	PaymentMethod *string    `json:"payment_method"`

	IsAutoRenew           bool `gorm:"default:false;index" json:"is_auto_renew"`
	GracePeriodDays       *int `json:"grace_period_days"`
	AutoRenewalNoticeDays *int `json:"auto_renewal_notice_days"`

	RenewedFromID *uint `gorm:"uniqueIndex" json:"renewed_from_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Unit   Unit   `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	// RenewedTo is the successor lease created by the renewal engine, if any.
	RenewedTo *LeaseAgreement `gorm:"foreignKey:RenewedFromID" json:"renewed_to,omitempty"`
}

// TableName specifies the table name for LeaseAgreement
func (LeaseAgreement) TableName() string {
	return "lease_agreements"
}

// BeforeCreate assigns the public GUID
func (l *LeaseAgreement) BeforeCreate(tx *gorm.DB) error {
	if l.GUID == "" {
		l.GUID = uuid.NewString()
	}
	return nil
}

// Lease status constants
const (
	LeaseStatusDraft     = "draft"
	LeaseStatusActive    = "active"
	LeaseStatusEnded     = "ended"
	LeaseStatusCancelled = "cancelled"
)

// Payment cycle constants
const (
	PaymentCycleDaily   = "daily"
	PaymentCycleMonthly = "monthly"
	PaymentCycleAnnual  = "annual"
)

// Deposit status constants
const (
	DepositStatusHeld      = "held"
	DepositStatusReturned  = "returned"
	DepositStatusForfeited = "forfeited"
)

// Lease payment status constants
const (
	LeasePaymentPending = "pending"
	LeasePaymentPaid    = "paid"
)

// ValidPaymentCycle reports whether cycle is one of daily/monthly/annual
func ValidPaymentCycle(cycle string) bool {
	return cycle == PaymentCycleDaily || cycle == PaymentCycleMonthly || cycle == PaymentCycleAnnual
}

// MayActivate returns true if the lease can transition to active
func (l *LeaseAgreement) MayActivate() bool {
	return l.Status == LeaseStatusDraft
}

// MayCancel returns true if the lease can be cancelled
func (l *LeaseAgreement) MayCancel() bool {
	return l.Status == LeaseStatusDraft
}

// MayEnd returns true if the lease can transition to ended
func (l *LeaseAgreement) MayEnd() bool {
	return l.Status == LeaseStatusActive
}

// IsTerminal returns true once the lease reached a final state
func (l *LeaseAgreement) IsTerminal() bool {
	return l.Status == LeaseStatusEnded || l.Status == LeaseStatusCancelled
}

// IsPaid returns true once payment has been recorded
func (l *LeaseAgreement) IsPaid() bool {
	return l.PaidAt != nil || l.PaymentStatus == LeasePaymentPaid
}

// HasRenewalLink reports whether the lease participates in a renewal chain.
// RenewedTo must be preloaded for the successor side of the check.
func (l *LeaseAgreement) HasRenewalLink() bool {
	return l.RenewedFromID != nil || l.RenewedTo != nil
}

// MayEditCoreTerms returns true while dates, cycle and amounts may change
func (l *LeaseAgreement) MayEditCoreTerms() bool {
	return l.Status == LeaseStatusDraft
}

// MayChangeDepositStatus returns true if the held deposit can be resolved.
// Requires an ended lease, a deposit still held, and no renewal successor
// (the successor inherits the deposit).
func (l *LeaseAgreement) MayChangeDepositStatus() bool {
	if l.Status != LeaseStatusEnded {
		return false
	}
	if l.DepositStatus == nil || *l.DepositStatus != DepositStatusHeld {
		return false
	}
	return l.RenewedTo == nil
}

// MayDelete returns true only for drafts outside any renewal chain
func (l *LeaseAgreement) MayDelete() bool {
	return l.Status == LeaseStatusDraft && !l.HasRenewalLink()
}

// LeaseResponse is the JSON response format for leases
type LeaseResponse struct {
	ID                    uint       `json:"id"`
	GUID                  string     `json:"guid"`
	OrganizationID        uint       `json:"organization_id"`
	UnitID                uint       `json:"unit_id"`
	UnitName              string     `json:"unit_name"`
	PropertyName          string     `json:"property_name"`
	TenantID              uint       `json:"tenant_id"`
	TenantName            string     `json:"tenant_name"`
	StartDate             time.Time  `json:"start_date"`
	EndDate               time.Time  `json:"end_date"`
	PaymentCycle          string     `json:"payment_cycle"`
	RentAmount            float64    `json:"rent_amount"`
	DepositAmount         *float64   `json:"deposit_amount"`
	DepositStatus         *string    `json:"deposit_status"`
	Status                string     `json:"status"`
	PaidAt                *time.Time `json:"paid_at"`
	PaymentStatus         string     `json:"payment_status"`
	PaymentMethod         *string    `json:"payment_method"`
	IsAutoRenew           bool       `json:"is_auto_renew"`
	GracePeriodDays       *int       `json:"grace_period_days"`
	AutoRenewalNoticeDays *int       `json:"auto_renewal_notice_days"`
	RenewedFromID         *uint      `json:"renewed_from_id"`
	RenewedToID           *uint      `json:"renewed_to_id"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// ToResponse converts LeaseAgreement to LeaseResponse
func (l *LeaseAgreement) ToResponse() LeaseResponse {
	resp := LeaseResponse{
		ID:                    l.ID,
		GUID:                  l.GUID,
		OrganizationID:        l.OrganizationID,
		UnitID:                l.UnitID,
		UnitName:              l.Unit.Name,
		PropertyName:          l.Unit.Property.Name,
		TenantID:              l.TenantID,
		TenantName:            l.Tenant.FullName,
		StartDate:             l.StartDate,
		EndDate:               l.EndDate,
		PaymentCycle:          l.PaymentCycle,
		RentAmount:            l.RentAmount,
		DepositAmount:         l.DepositAmount,
		DepositStatus:         l.DepositStatus,
		Status:                l.Status,
		PaidAt:                l.PaidAt,
		PaymentStatus:         l.PaymentStatus,
		PaymentMethod:         l.PaymentMethod,
		IsAutoRenew:           l.IsAutoRenew,
		GracePeriodDays:       l.GracePeriodDays,
		AutoRenewalNoticeDays: l.AutoRenewalNoticeDays,
		RenewedFromID:         l.RenewedFromID,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}

	if l.RenewedTo != nil {
		resp.RenewedToID = &l.RenewedTo.ID
	}

	return resp
}
