package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rentsafe/server/internal/bus"
	"rentsafe/server/internal/models"
)

// Database wraps the gorm store and the change bus. Every write to a child
// collection publishes a fresh full snapshot of that collection, which is
// what the portfolio aggregator subscribes to.
type Database struct {
	db     *gorm.DB
	bus    *bus.Bus
	logger *logrus.Logger
}

func NewDatabase(dbPath string, changeBus *bus.Bus, logger *logrus.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return &Database{db: db, bus: changeBus, logger: logger}, nil
}

func (d *Database) RunMigrations() error {
	err := d.db.AutoMigrate(
		&models.Property{},
		&models.Tenant{},
		&models.MaintenanceLog{},
		&models.Inspection{},
		&models.Document{},
		&models.Expense{},
		&models.RentPayment{},
		&models.TenantScreening{},
		&models.AlertConfig{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

// publishCollection pushes the current full contents of one child
// collection onto the change bus. Publish failures are logged, not
// propagated: the write itself has already committed.
func (d *Database) publishCollection(ownerID, propertyID, collection string) {
	if d.bus == nil {
		return
	}

	records, err := d.LoadCollectionSnapshot(ownerID, propertyID, collection)
	if err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"property":   propertyID,
			"collection": collection,
		}).Error("Failed to load snapshot for publish")
		return
	}

	err = d.bus.Publish(bus.Snapshot{
		Topic: bus.Topic{
			OwnerID:    ownerID,
			PropertyID: propertyID,
			Collection: collection,
		},
		Records: records,
	})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to publish collection snapshot")
	}
}

// publishParents pushes the owner's current active property list onto the
// parent-list topic, which drives aggregator fan-out teardown/re-open.
func (d *Database) publishParents(ownerID string) {
	if d.bus == nil {
		return
	}

	properties, err := d.GetProperties(ownerID, "")
	if err != nil {
		d.logger.WithError(err).Error("Failed to load property list for publish")
		return
	}

	records := make([]any, 0, len(properties))
	for _, p := range properties {
		records = append(records, p)
	}

	err = d.bus.Publish(bus.Snapshot{
		Topic:   bus.ParentTopic(ownerID),
		Records: records,
	})
	if err != nil {
		d.logger.WithError(err).Warn("Failed to publish property list snapshot")
	}
}
