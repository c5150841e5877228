package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentsafe/server/internal/models"
)

var ErrNotFound = errors.New("record not found")

// CreateProperty stores a new property and publishes the updated parent
// list.
func (d *Database) CreateProperty(p *models.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = models.PropertyStatusVacant
	}
	if err := d.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	d.publishParents(p.OwnerID)
	return nil
}

// GetProperties returns an owner's properties. An empty status filter
// means the active portfolio (Vacant, Occupied, Under Maintenance);
// soft-deleted properties are only visible with an explicit
// status=Deleted filter.
func (d *Database) GetProperties(ownerID, status string) ([]models.Property, error) {
	query := d.db.Where("owner_id = ?", ownerID)
	if status == "" {
		query = query.Where("status IN ?", models.ActivePropertyStatuses)
	} else {
		query = query.Where("status = ?", status)
	}

	var properties []models.Property
	if err := query.Order("created_at").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	return properties, nil
}

func (d *Database) GetProperty(ownerID, id string) (*models.Property, error) {
	var p models.Property
	err := d.db.Where("owner_id = ? AND id = ?", ownerID, id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	return &p, nil
}

// UpdateProperty saves the full property record and republishes the
// parent list (a status change can move the property in or out of the
// active portfolio).
func (d *Database) UpdateProperty(p *models.Property) error {
	result := d.db.Model(&models.Property{}).
		Where("owner_id = ? AND id = ?", p.OwnerID, p.ID).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(p)
	if result.Error != nil {
		return fmt.Errorf("failed to update property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishParents(p.OwnerID)
	return nil
}

// SoftDeleteProperty marks a property Deleted. The row is never physically
// removed, so history under it stays addressable.
func (d *Database) SoftDeleteProperty(ownerID, id string) error {
	result := d.db.Model(&models.Property{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Update("status", models.PropertyStatusDeleted)
	if result.Error != nil {
		return fmt.Errorf("failed to delete property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishParents(ownerID)
	return nil
}
