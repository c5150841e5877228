package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentsafe/server/internal/bus"
	"rentsafe/server/internal/models"
)

func newTestDatabase(t *testing.T) (*Database, *bus.Bus) {
	t.Helper()
	logger := logrus.New()
	changeBus := bus.NewBus(8, logger)

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"), changeBus, logger)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	t.Cleanup(func() {
		db.Close()
		changeBus.Close()
	})
	return db, changeBus
}

func makeProperty(t *testing.T, db *Database, ownerID string) models.Property {
	t.Helper()
	p := models.Property{
		OwnerID:      ownerID,
		AddressLine1: "12 Harcourt Road",
		City:         "Sheffield",
		Postcode:     "S10 1DB",
		PropertyType: "House",
		Bedrooms:     3,
		Bathrooms:    1,
	}
	require.NoError(t, db.CreateProperty(&p))
	return p
}

func TestPropertyLifecycle(t *testing.T) {
	db, _ := newTestDatabase(t)

	p := makeProperty(t, db, "owner-1")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.PropertyStatusVacant, p.Status)

	got, err := db.GetProperty("owner-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Harcourt Road", got.AddressLine1)

	p.Status = models.PropertyStatusOccupied
	require.NoError(t, db.UpdateProperty(&p))

	active, err := db.GetProperties("owner-1", "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, models.PropertyStatusOccupied, active[0].Status)
}

func TestSoftDelete(t *testing.T) {
	db, _ := newTestDatabase(t)
	p := makeProperty(t, db, "owner-1")

	require.NoError(t, db.SoftDeleteProperty("owner-1", p.ID))

	// Gone from the active portfolio
	active, err := db.GetProperties("owner-1", "")
	require.NoError(t, err)
	assert.Empty(t, active)

	// But the row survives and is addressable by explicit filter
	deleted, err := db.GetProperties("owner-1", models.PropertyStatusDeleted)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, p.ID, deleted[0].ID)
}

func TestUpdateKeepsOmittedStatus(t *testing.T) {
	db, _ := newTestDatabase(t)
	p := makeProperty(t, db, "owner-1")

	m := models.MaintenanceLog{
		OwnerID:    "owner-1",
		PropertyID: p.ID,
		Title:      "Boiler pressure dropping",
		ReportedAt: time.Now(),
	}
	require.NoError(t, db.CreateMaintenanceLog(&m))
	require.Equal(t, models.MaintenanceStatusOpen, m.Status)

	// A full-record update whose payload omitted status must not blank
	// the stored one.
	update := m
	update.Status = ""
	update.Title = "Boiler pressure dropping fast"
	require.NoError(t, db.UpdateMaintenanceLog(&update))

	logs, err := db.ListMaintenanceLogs("owner-1", p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Boiler pressure dropping fast", logs[0].Title)
	assert.Equal(t, models.MaintenanceStatusOpen, logs[0].Status)

	tenant := models.Tenant{OwnerID: "owner-1", PropertyID: p.ID, FullName: "Priya Shah"}
	require.NoError(t, db.CreateTenant(&tenant))

	tenantUpdate := tenant
	tenantUpdate.Status = ""
	tenantUpdate.Phone = "07700 900123"
	require.NoError(t, db.UpdateTenant(&tenantUpdate))

	got, err := db.GetTenant("owner-1", tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "07700 900123", got.Phone)
	assert.Equal(t, models.TenantStatusActive, got.Status)
}

func TestOwnerScoping(t *testing.T) {
	db, _ := newTestDatabase(t)
	mine := makeProperty(t, db, "owner-1")
	makeProperty(t, db, "owner-2")

	properties, err := db.GetProperties("owner-1", "")
	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, mine.ID, properties[0].ID)

	_, err = db.GetProperty("owner-2", mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChildWritePublishesSnapshot(t *testing.T) {
	db, changeBus := newTestDatabase(t)
	p := makeProperty(t, db, "owner-1")

	sub, err := changeBus.Subscribe(bus.Topic{
		OwnerID:    "owner-1",
		PropertyID: p.ID,
		Collection: models.CollectionMaintenance,
	})
	require.NoError(t, err)

	m := models.MaintenanceLog{
		OwnerID:    "owner-1",
		PropertyID: p.ID,
		Title:      "Boiler pressure dropping",
		Priority:   "High",
		ReportedAt: time.Now(),
	}
	require.NoError(t, db.CreateMaintenanceLog(&m))
	assert.Equal(t, models.MaintenanceStatusOpen, m.Status)

	select {
	case snap := <-sub.C():
		require.Len(t, snap.Records, 1)
		rec, ok := snap.Records[0].(models.MaintenanceLog)
		require.True(t, ok)
		assert.Equal(t, "Boiler pressure dropping", rec.Title)
	case <-time.After(time.Second):
		t.Fatal("snapshot not published after write")
	}
}

func TestPropertyWritePublishesParentList(t *testing.T) {
	db, changeBus := newTestDatabase(t)

	sub, err := changeBus.Subscribe(bus.ParentTopic("owner-1"))
	require.NoError(t, err)

	p := makeProperty(t, db, "owner-1")

	select {
	case snap := <-sub.C():
		require.Len(t, snap.Records, 1)
		rec, ok := snap.Records[0].(models.Property)
		require.True(t, ok)
		assert.Equal(t, p.ID, rec.ID)
	case <-time.After(time.Second):
		t.Fatal("parent list not published after write")
	}

	// Soft delete drops the property out of the published list
	require.NoError(t, db.SoftDeleteProperty("owner-1", p.ID))
	select {
	case snap := <-sub.C():
		assert.Empty(t, snap.Records)
	case <-time.After(time.Second):
		t.Fatal("parent list not republished after delete")
	}
}

func TestLoadCollectionSnapshot(t *testing.T) {
	db, _ := newTestDatabase(t)
	p := makeProperty(t, db, "owner-1")

	expiry := time.Now().AddDate(1, 0, 0)
	require.NoError(t, db.CreateDocument(&models.Document{
		OwnerID:    "owner-1",
		PropertyID: p.ID,
		Title:      "Gas Safety Certificate",
		DocType:    "Gas Safety",
		ExpiryDate: &expiry,
	}))

	records, err := db.LoadCollectionSnapshot("owner-1", p.ID, models.CollectionDocuments)
	require.NoError(t, err)
	require.Len(t, records, 1)

	doc, ok := records[0].(models.Document)
	require.True(t, ok)
	assert.Equal(t, "Gas Safety Certificate", doc.Title)

	_, err = db.LoadCollectionSnapshot("owner-1", p.ID, "bogus")
	assert.Error(t, err)
}

func TestRentCollected(t *testing.T) {
	db, _ := newTestDatabase(t)
	p := makeProperty(t, db, "owner-1")

	payments := []models.RentPayment{
		{OwnerID: "owner-1", PropertyID: p.ID, Amount: 95000, Year: 2026, Month: 8, Status: models.RentStatusPaid},
		{OwnerID: "owner-1", PropertyID: p.ID, Amount: 95000, Year: 2026, Month: 7, Status: models.RentStatusPaid},
		{OwnerID: "owner-1", PropertyID: p.ID, Amount: 95000, Year: 2026, Month: 8, Status: models.RentStatusLate},
	}
	for i := range payments {
		require.NoError(t, db.CreateRentPayment(&payments[i]))
	}

	total, err := db.RentCollected("owner-1", 2026, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(95000), total)

	empty, err := db.RentCollected("owner-1", 2026, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty)
}

func TestAlertConfigUpsert(t *testing.T) {
	db, _ := newTestDatabase(t)

	cfg, err := db.GetAlertConfig("owner-1")
	require.NoError(t, err)
	assert.Nil(t, cfg)

	req := &models.AlertConfigRequest{
		BotToken:  "123456789:AAAAAAAAAAAAAAAAAAAAAAAA",
		ChatID:    "42",
		IsEnabled: true,
	}
	require.NoError(t, db.UpsertAlertConfig("owner-1", req))

	cfg, err = db.GetAlertConfig("owner-1")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.True(t, cfg.IsEnabled)

	// Second save replaces, not duplicates
	req.IsEnabled = false
	require.NoError(t, db.UpsertAlertConfig("owner-1", req))

	configs, err := db.ListEnabledAlertConfigs()
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestTenantArchive(t *testing.T) {
	db, _ := newTestDatabase(t)
	p := makeProperty(t, db, "owner-1")

	tenant := models.Tenant{
		OwnerID:    "owner-1",
		PropertyID: p.ID,
		FullName:   "Priya Shah",
		Email:      "priya@example.com",
	}
	require.NoError(t, db.CreateTenant(&tenant))
	assert.Equal(t, models.TenantStatusActive, tenant.Status)

	require.NoError(t, db.ArchiveTenant("owner-1", p.ID, tenant.ID))

	got, err := db.GetTenant("owner-1", tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TenantStatusArchived, got.Status)
}
