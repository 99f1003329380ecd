package services

import (
	"context"

	"github.com/rentora/rentora-api/internal/models"
	"github.com/rentora/rentora-api/pkg/logger"
	"gorm.io/gorm"
)

// ActivityEntry describes one audit-trail write
type ActivityEntry struct {
	Type        string
	Description string
	TenantID    *uint
	PropertyID  *uint
	UnitID      *uint
	LeaseID     *uint
}

// ActivityService writes the audit trail. Writes are fire-and-forget: a
// failure is logged and swallowed so it never aborts the calling mutation.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService creates a new activity service
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Log records an activity entry. userID is 0 for system/cron actors.
func (s *ActivityService) Log(ctx context.Context, orgID, userID uint, entry ActivityEntry) {
	record := models.ActivityLog{
		OrganizationID: orgID,
		UserID:         userID,
		Type:           entry.Type,
		Description:    entry.Description,
		TenantID:       entry.TenantID,
		PropertyID:     entry.PropertyID,
		UnitID:         entry.UnitID,
		LeaseID:        entry.LeaseID,
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		logger.Error("failed to write activity log",
			"error", err,
			"type", entry.Type,
			"organization_id", orgID,
		)
	}
}

// List returns the most recent activity entries for an organization
func (s *ActivityService) List(ctx context.Context, orgID uint, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []models.ActivityLog
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// ListByLease returns the activity entries for one lease
func (s *ActivityService) ListByLease(ctx context.Context, orgID, leaseID uint) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND lease_id = ?", orgID, leaseID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
