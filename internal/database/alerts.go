package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentsafe/server/internal/models"
)

// GetAlertConfig returns the owner's stored alert configuration, or nil
// if none has been saved yet.
func (d *Database) GetAlertConfig(ownerID string) (*models.AlertConfig, error) {
	var cfg models.AlertConfig
	err := d.db.Where("owner_id = ?", ownerID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query alert config: %w", err)
	}
	return &cfg, nil
}

// UpsertAlertConfig saves the owner's alert configuration, replacing any
// existing row.
func (d *Database) UpsertAlertConfig(ownerID string, req *models.AlertConfigRequest) error {
	cfg := models.AlertConfig{
		OwnerID:   ownerID,
		BotToken:  req.BotToken,
		ChatID:    req.ChatID,
		IsEnabled: req.IsEnabled,
	}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bot_token", "chat_id", "is_enabled"}),
	}).Create(&cfg).Error
	if err != nil {
		return fmt.Errorf("failed to save alert config: %w", err)
	}
	return nil
}

// ListEnabledAlertConfigs returns every owner with alerts switched on,
// for the daily compliance sweep.
func (d *Database) ListEnabledAlertConfigs() ([]models.AlertConfig, error) {
	var cfgs []models.AlertConfig
	if err := d.db.Where("is_enabled = ?", true).Find(&cfgs).Error; err != nil {
		return nil, fmt.Errorf("failed to query alert configs: %w", err)
	}
	return cfgs, nil
}
