package database

import (
	"fmt"

	"rentsafe/server/internal/models"
)

// CountPropertiesByStatus returns property counts per status for an
// owner, soft-deleted included (the caller decides what to surface).
func (d *Database) CountPropertiesByStatus(ownerID string) (map[string]int, error) {
	type row struct {
		Status string
		Count  int
	}
	var rows []row
	err := d.db.Model(&models.Property{}).
		Select("status, COUNT(*) as count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// CountOpenMaintenance counts maintenance logs still open or in progress
// across the owner's active properties.
func (d *Database) CountOpenMaintenance(ownerID string) (int, error) {
	var count int64
	err := d.db.Model(&models.MaintenanceLog{}).
		Where("owner_id = ? AND status IN ?", ownerID,
			[]string{models.MaintenanceStatusOpen, models.MaintenanceStatusInProgress}).
		Where("property_id IN (?)", d.activePropertyIDs(ownerID)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count open maintenance: %w", err)
	}
	return int(count), nil
}

// ListOwnerDocuments returns every document across the owner's active
// properties. Compliance status is derived by the caller, never here.
func (d *Database) ListOwnerDocuments(ownerID string) ([]models.Document, error) {
	var recs []models.Document
	err := d.db.Where("owner_id = ?", ownerID).
		Where("property_id IN (?)", d.activePropertyIDs(ownerID)).
		Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query owner documents: %w", err)
	}
	return recs, nil
}

// RentCollected sums payments marked Paid for a given month across the
// owner's portfolio.
func (d *Database) RentCollected(ownerID string, year, month int) (int64, error) {
	var total *int64
	err := d.db.Model(&models.RentPayment{}).
		Select("SUM(amount)").
		Where("owner_id = ? AND year = ? AND month = ? AND status = ?",
			ownerID, year, month, models.RentStatusPaid).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum rent collected: %w", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// ListOwnerExpenses returns all expenses in a calendar year across the
// owner's properties, for the tax summary export.
func (d *Database) ListOwnerExpenses(ownerID string, year int) ([]models.Expense, error) {
	var recs []models.Expense
	err := d.db.Where("owner_id = ?", ownerID).
		Where("strftime('%Y', date) = ?", fmt.Sprintf("%04d", year)).
		Order("date").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query owner expenses: %w", err)
	}
	return recs, nil
}

// ListOwnerRentPayments returns all rent payments in a calendar year
// across the owner's properties.
func (d *Database) ListOwnerRentPayments(ownerID string, year int) ([]models.RentPayment, error) {
	var recs []models.RentPayment
	err := d.db.Where("owner_id = ? AND year = ?", ownerID, year).
		Order("month").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query owner rent payments: %w", err)
	}
	return recs, nil
}

// activePropertyIDs is a subquery over the owner's active portfolio.
func (d *Database) activePropertyIDs(ownerID string) any {
	return d.db.Model(&models.Property{}).
		Select("id").
		Where("owner_id = ? AND status IN ?", ownerID, models.ActivePropertyStatuses)
}
