package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rentsafe/server/internal/compliance"
	"rentsafe/server/internal/database"
	"rentsafe/server/internal/models"
)

// requireProperty confirms the addressed property belongs to the owner
// before touching anything nested under it.
func (h *Handler) requireProperty(c *gin.Context) (string, bool) {
	propertyID := c.Param("id")
	_, err := h.db.GetProperty(ownerID(c), propertyID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return "", false
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve property"})
		return "", false
	}
	return propertyID, true
}

func (h *Handler) writeChildError(c *gin.Context, err error, what string) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	h.logger.WithError(err).Error("Failed to write " + what)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write " + what})
}

// --- maintenance logs ---

func (h *Handler) ListMaintenanceLogs(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}
	recs, err := h.db.ListMaintenanceLogs(ownerID(c), propertyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get maintenance logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get maintenance logs"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) CreateMaintenanceLog(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}

	var m models.MaintenanceLog
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maintenance payload"})
		return
	}
	m.ID = ""
	m.OwnerID = ownerID(c)
	m.PropertyID = propertyID
	if m.ReportedAt.IsZero() {
		m.ReportedAt = time.Now()
	}

	if err := h.db.CreateMaintenanceLog(&m); err != nil {
		h.writeChildError(c, err, "maintenance log")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMaintenanceLog(c *gin.Context) {
	var m models.MaintenanceLog
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maintenance payload"})
		return
	}
	m.ID = c.Param("childID")
	m.OwnerID = ownerID(c)
	m.PropertyID = c.Param("id")

	if err := h.db.UpdateMaintenanceLog(&m); err != nil {
		h.writeChildError(c, err, "maintenance log")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMaintenanceLog(c *gin.Context) {
	if err := h.db.DeleteMaintenanceLog(ownerID(c), c.Param("id"), c.Param("childID")); err != nil {
		h.writeChildError(c, err, "maintenance log")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Maintenance log deleted"})
}

// --- inspections ---

func (h *Handler) ListInspections(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}
	recs, err := h.db.ListInspections(ownerID(c), propertyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get inspections")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get inspections"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) CreateInspection(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}

	var i models.Inspection
	if err := c.ShouldBindJSON(&i); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inspection payload"})
		return
	}
	if i.Variant != models.InspectionVariantSingleLet && i.Variant != models.InspectionVariantHMO {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inspection variant"})
		return
	}
	i.ID = ""
	i.OwnerID = ownerID(c)
	i.PropertyID = propertyID

	if err := h.db.CreateInspection(&i); err != nil {
		h.writeChildError(c, err, "inspection")
		return
	}
	c.JSON(http.StatusCreated, i)
}

func (h *Handler) UpdateInspection(c *gin.Context) {
	var i models.Inspection
	if err := c.ShouldBindJSON(&i); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inspection payload"})
		return
	}
	i.ID = c.Param("childID")
	i.OwnerID = ownerID(c)
	i.PropertyID = c.Param("id")

	if err := h.db.UpdateInspection(&i); err != nil {
		h.writeChildError(c, err, "inspection")
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *Handler) DeleteInspection(c *gin.Context) {
	if err := h.db.DeleteInspection(ownerID(c), c.Param("id"), c.Param("childID")); err != nil {
		h.writeChildError(c, err, "inspection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Inspection deleted"})
}

// --- documents ---

// ListDocuments returns a property's documents with compliance status
// derived at read time against the current clock.
func (h *Handler) ListDocuments(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}
	recs, err := h.db.ListDocuments(ownerID(c), propertyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get documents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get documents"})
		return
	}

	now := time.Now()
	views := make([]models.DocumentView, 0, len(recs))
	for _, doc := range recs {
		views = append(views, models.DocumentView{
			Document: doc,
			Status:   compliance.DocumentStatus(doc.ExpiryDate, now, h.config.Compliance.ExpiryWindowDays),
		})
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CreateDocument(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}

	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document payload"})
		return
	}
	doc.ID = ""
	doc.OwnerID = ownerID(c)
	doc.PropertyID = propertyID

	if err := h.db.CreateDocument(&doc); err != nil {
		h.writeChildError(c, err, "document")
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) UpdateDocument(c *gin.Context) {
	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document payload"})
		return
	}
	doc.ID = c.Param("childID")
	doc.OwnerID = ownerID(c)
	doc.PropertyID = c.Param("id")

	if err := h.db.UpdateDocument(&doc); err != nil {
		h.writeChildError(c, err, "document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	if err := h.db.DeleteDocument(ownerID(c), c.Param("id"), c.Param("childID")); err != nil {
		h.writeChildError(c, err, "document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Document deleted"})
}

// --- expenses ---

func (h *Handler) ListExpenses(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}
	recs, err := h.db.ListExpenses(ownerID(c), propertyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get expenses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get expenses"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) CreateExpense(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}

	var e models.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense payload"})
		return
	}
	e.ID = ""
	e.OwnerID = ownerID(c)
	e.PropertyID = propertyID

	if err := h.db.CreateExpense(&e); err != nil {
		h.writeChildError(c, err, "expense")
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) UpdateExpense(c *gin.Context) {
	var e models.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense payload"})
		return
	}
	e.ID = c.Param("childID")
	e.OwnerID = ownerID(c)
	e.PropertyID = c.Param("id")

	if err := h.db.UpdateExpense(&e); err != nil {
		h.writeChildError(c, err, "expense")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	if err := h.db.DeleteExpense(ownerID(c), c.Param("id"), c.Param("childID")); err != nil {
		h.writeChildError(c, err, "expense")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Expense deleted"})
}

// --- rent payments ---

func (h *Handler) ListRentPayments(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}
	recs, err := h.db.ListRentPayments(ownerID(c), propertyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get rent payments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get rent payments"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) CreateRentPayment(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}

	var r models.RentPayment
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rent payment payload"})
		return
	}
	if r.Month < 1 || r.Month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return
	}
	r.ID = ""
	r.OwnerID = ownerID(c)
	r.PropertyID = propertyID

	if err := h.db.CreateRentPayment(&r); err != nil {
		h.writeChildError(c, err, "rent payment")
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpdateRentPayment(c *gin.Context) {
	var r models.RentPayment
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rent payment payload"})
		return
	}
	r.ID = c.Param("childID")
	r.OwnerID = ownerID(c)
	r.PropertyID = c.Param("id")

	if err := h.db.UpdateRentPayment(&r); err != nil {
		h.writeChildError(c, err, "rent payment")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteRentPayment(c *gin.Context) {
	if err := h.db.DeleteRentPayment(ownerID(c), c.Param("id"), c.Param("childID")); err != nil {
		h.writeChildError(c, err, "rent payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Rent payment deleted"})
}
