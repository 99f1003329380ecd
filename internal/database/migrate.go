package database

import (
	"fmt"

	"github.com/rentora/rentora-api/internal/models"
	"gorm.io/gorm"
)

// Migrate runs schema migrations for all models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Organization{},
		&models.Property{},
		&models.Unit{},
		&models.Tenant{},
		&models.LeaseAgreement{},
		&models.ActivityLog{},
		&models.NotificationRule{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := addLeaseOverlapConstraint(db); err != nil {
			return err
		}
	}

	return nil
}

// addLeaseOverlapConstraint installs the database-level backstop against
// double-booking a unit: no two draft/active non-auto-renew leases may hold
// overlapping date ranges on the same unit. The application re-validates
// availability inside its transactions; this constraint catches anything that
// slips through under concurrency. Violations surface as SQLSTATE 23P01.
func addLeaseOverlapConstraint(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("failed to create btree_gist extension: %w", err)
	}

	const stmt = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'lease_agreements_no_overlap'
	) THEN
		ALTER TABLE lease_agreements
			ADD CONSTRAINT lease_agreements_no_overlap
			EXCLUDE USING gist (
				unit_id WITH =,
				daterange(start_date::date, end_date::date, '[]') WITH &&
			)
			WHERE (status IN ('draft', 'active') AND NOT is_auto_renew);
	END IF;
END
$$;`

	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to add lease overlap constraint: %w", err)
	}
	return nil
}
