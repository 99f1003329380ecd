package repository

import (
	"context"
	"strings"
	"time"

	"github.com/rentora/rentora-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeaseRepository defines the interface for lease data access
type LeaseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LeaseAgreement, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseAgreement, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.LeaseAgreement, error)
	Create(ctx context.Context, lease *models.LeaseAgreement) error
	Update(ctx context.Context, lease *models.LeaseAgreement) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *LeaseQuery) ([]models.LeaseAgreement, int64, error)

	// FindBlocking returns the other draft/active leases on a unit that the
	// availability validator must consider.
	FindBlocking(ctx context.Context, unitID uint, excludeLeaseID *uint) ([]models.LeaseAgreement, error)

	// Sweep selections. Eligibility windows are evaluated by the caller so
	// all date arithmetic stays in one place.
	FindGraceDraftCandidates(ctx context.Context, orgID *uint) ([]models.LeaseAgreement, error)
	FindExpired(ctx context.Context, now time.Time, orgID *uint) ([]models.LeaseAgreement, error)
	FindRenewalCandidates(ctx context.Context, orgID *uint) ([]models.LeaseAgreement, error)
	FindActiveSpanning(ctx context.Context, orgID uint, date time.Time) ([]models.LeaseAgreement, error)
	FindEndingOn(ctx context.Context, orgID uint, day time.Time) ([]models.LeaseAgreement, error)

	CountActiveByTenant(ctx context.Context, tenantID uint, excludeLeaseID uint) (int64, error)
	CountByTenant(ctx context.Context, tenantID uint, excludeLeaseID uint) (int64, error)
	HasFutureOnUnit(ctx context.Context, unitID uint, after time.Time, excludeLeaseID uint) (bool, error)
	HasSuccessor(ctx context.Context, leaseID uint) (bool, error)
}

// LeaseQuery extends ListQuery with lease-specific filters
type LeaseQuery struct {
	*ListQuery
	OrganizationID uint
	Status         string
	UnitID         uint
	TenantID       uint
}

type leaseRepository struct {
	db *gorm.DB
}

// NewLeaseRepository creates a new lease repository. Passing a transaction
// handle scopes every operation to that transaction.
func NewLeaseRepository(db *gorm.DB) LeaseRepository {
	return &leaseRepository{db: db}
}

func (r *leaseRepository) FindByID(ctx context.Context, id uint) (*models.LeaseAgreement, error) {
	var lease models.LeaseAgreement
	err := r.db.WithContext(ctx).First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseAgreement, error) {
	var lease models.LeaseAgreement
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Preload("Unit.Property").
		Preload("RenewedTo").
		First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// FindByIDForUpdate loads a lease under a row lock so concurrent transitions
// on the same lease serialize. SQLite has no row locks; its single-writer
// model covers the same ground in dev and tests.
func (r *leaseRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.LeaseAgreement, error) {
	db := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var lease models.LeaseAgreement
	if err := db.First(&lease, id).Error; err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) Create(ctx context.Context, lease *models.LeaseAgreement) error {
	return r.db.WithContext(ctx).Create(lease).Error
}

func (r *leaseRepository) Update(ctx context.Context, lease *models.LeaseAgreement) error {
	// Omit associations so stale preloaded rows are never re-saved
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(lease).Error
}

func (r *leaseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LeaseAgreement{}, id).Error
}

func (r *leaseRepository) List(ctx context.Context, query *LeaseQuery) ([]models.LeaseAgreement, int64, error) {
	var leases []models.LeaseAgreement
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LeaseAgreement{}).
		Where("lease_agreements.organization_id = ?", query.OrganizationID)

	if query.Status != "" {
		statuses := strings.Split(query.Status, ",")
		for i, s := range statuses {
			statuses[i] = strings.TrimSpace(s)
		}
		db = db.Where("lease_agreements.status IN ?", statuses)
	}
	if query.UnitID > 0 {
		db = db.Where("lease_agreements.unit_id = ?", query.UnitID)
	}
	if query.TenantID > 0 {
		db = db.Where("lease_agreements.tenant_id = ?", query.TenantID)
	}

	if query.Filters != nil {
		if val, ok := query.Filters["starts_from"]; ok && val != "" {
			db = db.Where("lease_agreements.start_date >= ?", val)
		}
		if val, ok := query.Filters["ends_before"]; ok && val != "" {
			db = db.Where("lease_agreements.end_date <= ?", val)
		}
		if val, ok := query.Filters["is_auto_renew"]; ok && val != "" {
			db = db.Where("lease_agreements.is_auto_renew = ?", val == "true")
		}
	}

	// JOINs only for filtering; associations loaded via Preload below
	if query.Search != "" {
		search := "%" + strings.ToLower(query.Search) + "%"
		db = db.Joins("LEFT JOIN tenants ON tenants.id = lease_agreements.tenant_id").
			Joins("LEFT JOIN units ON units.id = lease_agreements.unit_id").
			Where("LOWER(tenants.full_name) LIKE ? OR LOWER(units.name) LIKE ? OR LOWER(lease_agreements.guid) LIKE ?",
				search, search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("lease_agreements.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.
		Preload("Tenant").
		Preload("Unit.Property").
		Preload("RenewedTo").
		Find(&leases).Error
	if err != nil {
		return nil, 0, err
	}

	return leases, total, nil
}

func (r *leaseRepository) FindBlocking(ctx context.Context, unitID uint, excludeLeaseID *uint) ([]models.LeaseAgreement, error) {
	db := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Where("status IN ?", []string{models.LeaseStatusDraft, models.LeaseStatusActive})
	if excludeLeaseID != nil {
		db = db.Where("id <> ?", *excludeLeaseID)
	}

	var leases []models.LeaseAgreement
	err := db.Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) FindGraceDraftCandidates(ctx context.Context, orgID *uint) ([]models.LeaseAgreement, error) {
	db := r.db.WithContext(ctx).
		Where("status = ?", models.LeaseStatusDraft).
		Where("grace_period_days IS NOT NULL").
		Where("paid_at IS NULL").
		Preload("Tenant").
		Preload("Unit")
	if orgID != nil {
		db = db.Where("organization_id = ?", *orgID)
	}

	var leases []models.LeaseAgreement
	err := db.Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) FindExpired(ctx context.Context, now time.Time, orgID *uint) ([]models.LeaseAgreement, error) {
	db := r.db.WithContext(ctx).
		Where("status = ?", models.LeaseStatusActive).
		Where("end_date < ?", now).
		Preload("Tenant").
		Preload("Unit")
	if orgID != nil {
		db = db.Where("organization_id = ?", *orgID)
	}

	var leases []models.LeaseAgreement
	err := db.Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) FindRenewalCandidates(ctx context.Context, orgID *uint) ([]models.LeaseAgreement, error) {
	db := r.db.WithContext(ctx).
		Where("status = ?", models.LeaseStatusActive).
		Where("is_auto_renew = ?", true).
		Where("auto_renewal_notice_days IS NOT NULL").
		Where("id NOT IN (?)", r.db.Model(&models.LeaseAgreement{}).
			Select("renewed_from_id").
			Where("renewed_from_id IS NOT NULL")).
		Preload("Tenant").
		Preload("Unit")
	if orgID != nil {
		db = db.Where("organization_id = ?", *orgID)
	}

	var leases []models.LeaseAgreement
	err := db.Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) FindActiveSpanning(ctx context.Context, orgID uint, date time.Time) ([]models.LeaseAgreement, error) {
	var leases []models.LeaseAgreement
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Where("status = ?", models.LeaseStatusActive).
		Where("start_date <= ? AND end_date >= ?", date, date).
		Preload("Tenant").
		Preload("Unit").
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) FindEndingOn(ctx context.Context, orgID uint, day time.Time) ([]models.LeaseAgreement, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var leases []models.LeaseAgreement
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Where("status = ?", models.LeaseStatusActive).
		Where("end_date >= ? AND end_date < ?", dayStart, dayEnd).
		Preload("Tenant").
		Preload("Unit").
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) CountActiveByTenant(ctx context.Context, tenantID uint, excludeLeaseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LeaseAgreement{}).
		Where("tenant_id = ?", tenantID).
		Where("status = ?", models.LeaseStatusActive).
		Where("id <> ?", excludeLeaseID).
		Count(&count).Error
	return count, err
}

func (r *leaseRepository) CountByTenant(ctx context.Context, tenantID uint, excludeLeaseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LeaseAgreement{}).
		Where("tenant_id = ?", tenantID).
		Where("id <> ?", excludeLeaseID).
		Count(&count).Error
	return count, err
}

func (r *leaseRepository) HasFutureOnUnit(ctx context.Context, unitID uint, after time.Time, excludeLeaseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LeaseAgreement{}).
		Where("unit_id = ?", unitID).
		Where("status IN ?", []string{models.LeaseStatusDraft, models.LeaseStatusActive}).
		Where("start_date > ?", after).
		Where("id <> ?", excludeLeaseID).
		Count(&count).Error
	return count > 0, err
}

func (r *leaseRepository) HasSuccessor(ctx context.Context, leaseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LeaseAgreement{}).
		Where("renewed_from_id = ?", leaseID).
		Count(&count).Error
	return count > 0, err
}
