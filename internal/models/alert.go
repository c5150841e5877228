package models

// AlertConfig is the stored Telegram alert target for compliance sweeps.
type AlertConfig struct {
	ID        int64  `json:"-" gorm:"primaryKey"`
	OwnerID   string `json:"owner_id" gorm:"uniqueIndex;not null"`
	BotToken  string `json:"bot_token"`
	ChatID    string `json:"chat_id"`
	IsEnabled bool   `json:"is_enabled"`
}

// AlertConfigRequest is the update payload for the alert settings
// endpoint.
type AlertConfigRequest struct {
	BotToken  string `json:"bot_token" binding:"required"`
	ChatID    string `json:"chat_id" binding:"required"`
	IsEnabled bool   `json:"is_enabled"`
}
