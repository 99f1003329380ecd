package repository

import (
	"context"

	"github.com/rentora/rentora-api/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByLease(ctx context.Context, leaseID uint) ([]models.Notification, error)
	List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Notification, int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByLease(ctx context.Context, leaseID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) List(ctx context.Context, orgID uint, query *ListQuery) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Notification{}).Where("organization_id = ?", orgID)
	if trigger, ok := query.Filters["trigger"]; ok && trigger != "" {
		db = db.Where("trigger = ?", trigger)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&notifications).Error
	return notifications, total, err
}

// NotificationRuleRepository defines the interface for notification rule access
type NotificationRuleRepository interface {
	FindActive(ctx context.Context) ([]models.NotificationRule, error)
	FindActiveByOrganization(ctx context.Context, orgID uint) ([]models.NotificationRule, error)
	Create(ctx context.Context, rule *models.NotificationRule) error
}

type notificationRuleRepository struct {
	db *gorm.DB
}

// NewNotificationRuleRepository creates a new notification rule repository
func NewNotificationRuleRepository(db *gorm.DB) NotificationRuleRepository {
	return &notificationRuleRepository{db: db}
}

func (r *notificationRuleRepository) FindActive(ctx context.Context) ([]models.NotificationRule, error) {
	var rules []models.NotificationRule
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&rules).Error
	return rules, err
}

func (r *notificationRuleRepository) FindActiveByOrganization(ctx context.Context, orgID uint) ([]models.NotificationRule, error) {
	var rules []models.NotificationRule
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND active = ?", orgID, true).
		Find(&rules).Error
	return rules, err
}

func (r *notificationRuleRepository) Create(ctx context.Context, rule *models.NotificationRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}
