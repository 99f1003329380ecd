package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rentora/rentora-api/internal/database"
	"github.com/rentora/rentora-api/internal/jobs"
	"github.com/rentora/rentora-api/internal/models"
	"github.com/rentora/rentora-api/internal/repository"
	"github.com/rentora/rentora-api/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDBCounter atomic.Int64

// testEnv wires the full service stack against an in-memory database with
// one organization, property, unit and tenant seeded.
type testEnv struct {
	db     *gorm.DB
	repos  *repository.Repositories
	svcs   *Services
	worker *jobs.Worker

	org    models.Organization
	unit   models.Unit
	tenant models.Tenant
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger.Setup("test")

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repos := repository.NewRepositories(db)
	worker := jobs.NewWorker(2)
	t.Cleanup(worker.Shutdown)

	env := &testEnv{
		db:     db,
		repos:  repos,
		svcs:   NewServices(db, repos, worker),
		worker: worker,
	}

	env.org = models.Organization{Name: "Acme Rentals"}
	require.NoError(t, db.Create(&env.org).Error)

	property := models.Property{OrganizationID: env.org.ID, Name: "Main Street 1"}
	require.NoError(t, db.Create(&property).Error)

	env.unit = models.Unit{OrganizationID: env.org.ID, PropertyID: property.ID, Name: "Unit A"}
	require.NoError(t, db.Create(&env.unit).Error)

	env.tenant = models.Tenant{OrganizationID: env.org.ID, FullName: "Jane Renter", Status: models.TenantStatusLead}
	require.NoError(t, db.Create(&env.tenant).Error)

	return env
}

// seedTenant creates an additional tenant in the test organization
func (e *testEnv) seedTenant(t *testing.T, name, status string) models.Tenant {
	t.Helper()
	tenant := models.Tenant{OrganizationID: e.org.ID, FullName: name, Status: status}
	require.NoError(t, e.db.Create(&tenant).Error)
	return tenant
}

// seedUnit creates an additional unit on the test property
func (e *testEnv) seedUnit(t *testing.T, name string) models.Unit {
	t.Helper()
	unit := models.Unit{OrganizationID: e.org.ID, PropertyID: e.unit.PropertyID, Name: name}
	require.NoError(t, e.db.Create(&unit).Error)
	return unit
}

// seedLease inserts a lease directly, bypassing the service guards
func (e *testEnv) seedLease(t *testing.T, mutate func(*models.LeaseAgreement)) models.LeaseAgreement {
	t.Helper()
	now := time.Now().UTC()
	lease := models.LeaseAgreement{
		OrganizationID: e.org.ID,
		UnitID:         e.unit.ID,
		TenantID:       e.tenant.ID,
		StartDate:      now.AddDate(0, 0, -30),
		EndDate:        now.AddDate(0, 0, 30),
		PaymentCycle:   models.PaymentCycleMonthly,
		RentAmount:     1000,
		Status:         models.LeaseStatusDraft,
		PaymentStatus:  models.LeasePaymentPending,
	}
	if mutate != nil {
		mutate(&lease)
	}
	require.NoError(t, e.db.Create(&lease).Error)
	return lease
}

// reloadLease fetches the current database state of a lease
func (e *testEnv) reloadLease(t *testing.T, id uint) models.LeaseAgreement {
	t.Helper()
	var lease models.LeaseAgreement
	require.NoError(t, e.db.First(&lease, id).Error)
	return lease
}

// reloadTenant fetches the current database state of a tenant
func (e *testEnv) reloadTenant(t *testing.T, id uint) models.Tenant {
	t.Helper()
	var tenant models.Tenant
	require.NoError(t, e.db.First(&tenant, id).Error)
	return tenant
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }
