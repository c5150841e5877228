package database

import (
	"fmt"

	"github.com/google/uuid"

	"rentsafe/server/internal/models"
)

// LoadCollectionSnapshot returns the full current contents of one child
// collection, boxed for the change bus. Snapshot order is plain store
// order; portfolio views re-sort after flattening.
func (d *Database) LoadCollectionSnapshot(ownerID, propertyID, collection string) ([]any, error) {
	scoped := d.db.Where("owner_id = ? AND property_id = ?", ownerID, propertyID).Order("created_at")

	switch collection {
	case models.CollectionMaintenance:
		var recs []models.MaintenanceLog
		if err := scoped.Find(&recs).Error; err != nil {
			return nil, err
		}
		return boxRecords(recs), nil
	case models.CollectionInspections:
		var recs []models.Inspection
		if err := scoped.Find(&recs).Error; err != nil {
			return nil, err
		}
		return boxRecords(recs), nil
	case models.CollectionDocuments:
		var recs []models.Document
		if err := scoped.Find(&recs).Error; err != nil {
			return nil, err
		}
		return boxRecords(recs), nil
	case models.CollectionExpenses:
		var recs []models.Expense
		if err := scoped.Find(&recs).Error; err != nil {
			return nil, err
		}
		return boxRecords(recs), nil
	case models.CollectionRentPayments:
		var recs []models.RentPayment
		if err := scoped.Find(&recs).Error; err != nil {
			return nil, err
		}
		return boxRecords(recs), nil
	case models.CollectionTenants:
		var recs []models.Tenant
		if err := scoped.Find(&recs).Error; err != nil {
			return nil, err
		}
		return boxRecords(recs), nil
	default:
		return nil, fmt.Errorf("unknown collection: %s", collection)
	}
}

func boxRecords[T any](recs []T) []any {
	out := make([]any, 0, len(recs))
	for _, r := range recs {
		out = append(out, r)
	}
	return out
}

// updateOmits lists the columns a full-record update never touches. An
// empty incoming status also leaves the stored status in place, so a
// payload that omits it cannot blank the column.
func updateOmits(status string, immutable ...string) []string {
	if status == "" {
		immutable = append(immutable, "status")
	}
	return immutable
}

// --- maintenance logs ---

func (d *Database) CreateMaintenanceLog(m *models.MaintenanceLog) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = models.MaintenanceStatusOpen
	}
	if err := d.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create maintenance log: %w", err)
	}
	d.publishCollection(m.OwnerID, m.PropertyID, models.CollectionMaintenance)
	return nil
}

func (d *Database) ListMaintenanceLogs(ownerID, propertyID string) ([]models.MaintenanceLog, error) {
	var recs []models.MaintenanceLog
	err := d.db.Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenance logs: %w", err)
	}
	return recs, nil
}

func (d *Database) UpdateMaintenanceLog(m *models.MaintenanceLog) error {
	result := d.db.Model(&models.MaintenanceLog{}).
		Where("owner_id = ? AND property_id = ? AND id = ?", m.OwnerID, m.PropertyID, m.ID).
		Select("*").
		Omit(updateOmits(m.Status, "id", "owner_id", "property_id", "created_at")...).
		Updates(m)
	if result.Error != nil {
		return fmt.Errorf("failed to update maintenance log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishCollection(m.OwnerID, m.PropertyID, models.CollectionMaintenance)
	return nil
}

func (d *Database) DeleteMaintenanceLog(ownerID, propertyID, id string) error {
	return d.deleteChild(&models.MaintenanceLog{}, ownerID, propertyID, id, models.CollectionMaintenance)
}

// --- inspections ---

func (d *Database) CreateInspection(i *models.Inspection) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = models.InspectionStatusScheduled
	}
	if err := d.db.Create(i).Error; err != nil {
		return fmt.Errorf("failed to create inspection: %w", err)
	}
	d.publishCollection(i.OwnerID, i.PropertyID, models.CollectionInspections)
	return nil
}

func (d *Database) ListInspections(ownerID, propertyID string) ([]models.Inspection, error) {
	var recs []models.Inspection
	err := d.db.Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query inspections: %w", err)
	}
	return recs, nil
}

func (d *Database) UpdateInspection(i *models.Inspection) error {
	result := d.db.Model(&models.Inspection{}).
		Where("owner_id = ? AND property_id = ? AND id = ?", i.OwnerID, i.PropertyID, i.ID).
		Select("*").
		Omit(updateOmits(i.Status, "id", "owner_id", "property_id", "created_at")...).
		Updates(i)
	if result.Error != nil {
		return fmt.Errorf("failed to update inspection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishCollection(i.OwnerID, i.PropertyID, models.CollectionInspections)
	return nil
}

func (d *Database) DeleteInspection(ownerID, propertyID, id string) error {
	return d.deleteChild(&models.Inspection{}, ownerID, propertyID, id, models.CollectionInspections)
}

// --- documents ---

func (d *Database) CreateDocument(doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if err := d.db.Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	d.publishCollection(doc.OwnerID, doc.PropertyID, models.CollectionDocuments)
	return nil
}

func (d *Database) ListDocuments(ownerID, propertyID string) ([]models.Document, error) {
	var recs []models.Document
	err := d.db.Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	return recs, nil
}

func (d *Database) UpdateDocument(doc *models.Document) error {
	result := d.db.Model(&models.Document{}).
		Where("owner_id = ? AND property_id = ? AND id = ?", doc.OwnerID, doc.PropertyID, doc.ID).
		Select("*").
		Omit("id", "owner_id", "property_id", "created_at").
		Updates(doc)
	if result.Error != nil {
		return fmt.Errorf("failed to update document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishCollection(doc.OwnerID, doc.PropertyID, models.CollectionDocuments)
	return nil
}

func (d *Database) DeleteDocument(ownerID, propertyID, id string) error {
	return d.deleteChild(&models.Document{}, ownerID, propertyID, id, models.CollectionDocuments)
}

// --- expenses ---

func (d *Database) CreateExpense(e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := d.db.Create(e).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	d.publishCollection(e.OwnerID, e.PropertyID, models.CollectionExpenses)
	return nil
}

func (d *Database) ListExpenses(ownerID, propertyID string) ([]models.Expense, error) {
	var recs []models.Expense
	err := d.db.Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	return recs, nil
}

func (d *Database) UpdateExpense(e *models.Expense) error {
	result := d.db.Model(&models.Expense{}).
		Where("owner_id = ? AND property_id = ? AND id = ?", e.OwnerID, e.PropertyID, e.ID).
		Select("*").
		Omit("id", "owner_id", "property_id", "created_at").
		Updates(e)
	if result.Error != nil {
		return fmt.Errorf("failed to update expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishCollection(e.OwnerID, e.PropertyID, models.CollectionExpenses)
	return nil
}

func (d *Database) DeleteExpense(ownerID, propertyID, id string) error {
	return d.deleteChild(&models.Expense{}, ownerID, propertyID, id, models.CollectionExpenses)
}

// --- rent payments ---

func (d *Database) CreateRentPayment(r *models.RentPayment) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = models.RentStatusPaid
	}
	if err := d.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to create rent payment: %w", err)
	}
	d.publishCollection(r.OwnerID, r.PropertyID, models.CollectionRentPayments)
	return nil
}

func (d *Database) ListRentPayments(ownerID, propertyID string) ([]models.RentPayment, error) {
	var recs []models.RentPayment
	err := d.db.Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query rent payments: %w", err)
	}
	return recs, nil
}

func (d *Database) UpdateRentPayment(r *models.RentPayment) error {
	result := d.db.Model(&models.RentPayment{}).
		Where("owner_id = ? AND property_id = ? AND id = ?", r.OwnerID, r.PropertyID, r.ID).
		Select("*").
		Omit(updateOmits(r.Status, "id", "owner_id", "property_id", "created_at")...).
		Updates(r)
	if result.Error != nil {
		return fmt.Errorf("failed to update rent payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishCollection(r.OwnerID, r.PropertyID, models.CollectionRentPayments)
	return nil
}

func (d *Database) DeleteRentPayment(ownerID, propertyID, id string) error {
	return d.deleteChild(&models.RentPayment{}, ownerID, propertyID, id, models.CollectionRentPayments)
}

// deleteChild hard-deletes one child record and republishes its
// collection. Only properties get soft deletes.
func (d *Database) deleteChild(model any, ownerID, propertyID, id, collection string) error {
	result := d.db.Where("owner_id = ? AND property_id = ? AND id = ?", ownerID, propertyID, id).
		Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete from %s: %w", collection, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishCollection(ownerID, propertyID, collection)
	return nil
}
