package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rentsafe/server/config"
	"rentsafe/server/internal/aggregator"
	"rentsafe/server/internal/database"
	"rentsafe/server/internal/models"
	"rentsafe/server/internal/notify"
)

type Handler struct {
	db       *database.Database
	hub      *aggregator.Hub
	notifier *notify.Service
	config   *config.Config
	logger   *logrus.Logger
}

func NewHandler(db *database.Database, hub *aggregator.Hub, notifier *notify.Service, cfg *config.Config, logger *logrus.Logger) *Handler {
	return &Handler{
		db:       db,
		hub:      hub,
		notifier: notifier,
		config:   cfg,
		logger:   logger,
	}
}

// RequireOwner scopes every request to the opaque owner identity set by
// the upstream auth layer. The service never sees credentials.
func (h *Handler) RequireOwner(c *gin.Context) {
	ownerID := c.GetHeader("X-Owner-ID")
	if ownerID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing owner identity"})
		return
	}
	c.Set("ownerID", ownerID)
	c.Next()
}

func ownerID(c *gin.Context) string {
	return c.GetString("ownerID")
}

var validPropertyStatuses = map[string]bool{
	models.PropertyStatusVacant:      true,
	models.PropertyStatusOccupied:    true,
	models.PropertyStatusMaintenance: true,
	models.PropertyStatusDeleted:     true,
}

func (h *Handler) ListProperties(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !validPropertyStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property status"})
		return
	}

	properties, err := h.db.GetProperties(ownerID(c), status)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var p models.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		h.logger.WithError(err).Error("Failed to parse property payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property payload"})
		return
	}
	if p.Status != "" && !validPropertyStatuses[p.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property status"})
		return
	}

	p.ID = ""
	p.OwnerID = ownerID(c)
	if err := h.db.CreateProperty(&p); err != nil {
		h.logger.WithError(err).Error("Failed to create property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProperty(c *gin.Context) {
	p, err := h.db.GetProperty(ownerID(c), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateProperty replaces the full record. Status is required: the update
// overwrites every column, and a blank status would drop the property out
// of both the active portfolio and the Deleted filter.
func (h *Handler) UpdateProperty(c *gin.Context) {
	var p models.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		h.logger.WithError(err).Error("Failed to parse property payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property payload"})
		return
	}
	if !validPropertyStatuses[p.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property status"})
		return
	}

	p.ID = c.Param("id")
	p.OwnerID = ownerID(c)
	err := h.db.UpdateProperty(&p)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to update property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteProperty is a soft delete: the property moves to Deleted status
// and drops out of the active portfolio.
func (h *Handler) DeleteProperty(c *gin.Context) {
	err := h.db.SoftDeleteProperty(ownerID(c), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Property deleted"})
}
