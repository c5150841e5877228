package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentsafe/server/internal/models"
)

func (d *Database) CreateTenant(t *models.Tenant) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TenantStatusActive
	}
	if err := d.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	d.publishCollection(t.OwnerID, t.PropertyID, models.CollectionTenants)
	return nil
}

func (d *Database) ListTenants(ownerID, propertyID string) ([]models.Tenant, error) {
	var recs []models.Tenant
	err := d.db.Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	return recs, nil
}

func (d *Database) GetTenant(ownerID, id string) (*models.Tenant, error) {
	var t models.Tenant
	err := d.db.Where("owner_id = ? AND id = ?", ownerID, id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant: %w", err)
	}
	return &t, nil
}

func (d *Database) UpdateTenant(t *models.Tenant) error {
	result := d.db.Model(&models.Tenant{}).
		Where("owner_id = ? AND property_id = ? AND id = ?", t.OwnerID, t.PropertyID, t.ID).
		Select("*").
		Omit(updateOmits(t.Status, "id", "owner_id", "property_id", "created_at")...).
		Updates(t)
	if result.Error != nil {
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishCollection(t.OwnerID, t.PropertyID, models.CollectionTenants)
	return nil
}

// ArchiveTenant moves a tenant to Archived rather than removing the row,
// matching the property soft-delete policy.
func (d *Database) ArchiveTenant(ownerID, propertyID, id string) error {
	result := d.db.Model(&models.Tenant{}).
		Where("owner_id = ? AND property_id = ? AND id = ?", ownerID, propertyID, id).
		Update("status", models.TenantStatusArchived)
	if result.Error != nil {
		return fmt.Errorf("failed to archive tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.publishCollection(ownerID, propertyID, models.CollectionTenants)
	return nil
}

// --- tenant screenings ---

func (d *Database) CreateScreening(s *models.TenantScreening) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = models.ScreeningStatusPending
	}
	if err := d.db.Create(s).Error; err != nil {
		return fmt.Errorf("failed to create screening: %w", err)
	}
	return nil
}

func (d *Database) ListScreenings(ownerID, tenantID string) ([]models.TenantScreening, error) {
	var recs []models.TenantScreening
	err := d.db.Where("owner_id = ? AND tenant_id = ?", ownerID, tenantID).
		Order("created_at").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query screenings: %w", err)
	}
	return recs, nil
}

func (d *Database) GetScreening(ownerID, id string) (*models.TenantScreening, error) {
	var s models.TenantScreening
	err := d.db.Where("owner_id = ? AND id = ?", ownerID, id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query screening: %w", err)
	}
	return &s, nil
}

func (d *Database) UpdateScreening(s *models.TenantScreening) error {
	result := d.db.Model(&models.TenantScreening{}).
		Where("owner_id = ? AND tenant_id = ? AND id = ?", s.OwnerID, s.TenantID, s.ID).
		Select("*").
		Omit(updateOmits(s.Status, "id", "owner_id", "tenant_id", "created_at")...).
		Updates(s)
	if result.Error != nil {
		return fmt.Errorf("failed to update screening: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Database) DeleteScreening(ownerID, tenantID, id string) error {
	result := d.db.Where("owner_id = ? AND tenant_id = ? AND id = ?", ownerID, tenantID, id).
		Delete(&models.TenantScreening{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete screening: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
