package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentsafe/server/internal/models"
)

// GetAlertConfig returns the owner's alert settings with the bot token
// masked.
func (h *Handler) GetAlertConfig(c *gin.Context) {
	cfg, err := h.db.GetAlertConfig(ownerID(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get alert config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alert config"})
		return
	}

	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{
			"is_enabled": false,
			"chat_id":    "",
			"bot_token":  "",
		})
		return
	}

	// Don't send the full bot token back to the client
	if len(cfg.BotToken) > 4 {
		cfg.BotToken = "••••" + cfg.BotToken[len(cfg.BotToken)-4:]
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateAlertConfig validates the target by sending a test message, then
// saves it.
func (h *Handler) UpdateAlertConfig(c *gin.Context) {
	var request models.AlertConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithError(err).Error("Invalid alert config body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(request.BotToken) < 20 || !strings.Contains(request.BotToken, ":") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot token format. Please check your bot token from @BotFather"})
		return
	}

	testConfig := &models.AlertConfig{
		BotToken:  request.BotToken,
		ChatID:    request.ChatID,
		IsEnabled: true,
	}
	if err := h.notifier.SendTestMessage(testConfig); err != nil {
		h.logger.WithError(err).Error("Failed to send test message")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.UpsertAlertConfig(ownerID(c), &request); err != nil {
		h.logger.WithError(err).Error("Failed to update alert config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert configuration updated successfully"})
}

// TestAlertConfig sends a test notification through the stored config.
func (h *Handler) TestAlertConfig(c *gin.Context) {
	cfg, err := h.db.GetAlertConfig(ownerID(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to get alert config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alert configuration"})
		return
	}

	if cfg == nil || !cfg.IsEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Alerts are not configured or are disabled"})
		return
	}

	if err := h.notifier.SendTestMessage(cfg); err != nil {
		h.logger.WithError(err).Error("Failed to send test notification")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test notification sent successfully"})
}
