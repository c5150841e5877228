package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentsafe/server/internal/compliance"
	"rentsafe/server/internal/database"
	"rentsafe/server/internal/models"
)

func (h *Handler) ListTenants(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}
	recs, err := h.db.ListTenants(ownerID(c), propertyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get tenants")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tenants"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) CreateTenant(c *gin.Context) {
	propertyID, ok := h.requireProperty(c)
	if !ok {
		return
	}

	var t models.Tenant
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant payload"})
		return
	}
	t.ID = ""
	t.OwnerID = ownerID(c)
	t.PropertyID = propertyID

	if err := h.db.CreateTenant(&t); err != nil {
		h.writeChildError(c, err, "tenant")
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTenant(c *gin.Context) {
	var t models.Tenant
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant payload"})
		return
	}
	t.ID = c.Param("childID")
	t.OwnerID = ownerID(c)
	t.PropertyID = c.Param("id")

	if err := h.db.UpdateTenant(&t); err != nil {
		h.writeChildError(c, err, "tenant")
		return
	}
	c.JSON(http.StatusOK, t)
}

// ArchiveTenant parallels property soft deletion: the tenant record is
// kept, flagged Archived.
func (h *Handler) ArchiveTenant(c *gin.Context) {
	if err := h.db.ArchiveTenant(ownerID(c), c.Param("id"), c.Param("childID")); err != nil {
		h.writeChildError(c, err, "tenant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Tenant archived"})
}

// --- tenant screenings ---

// requireTenant confirms the addressed tenant belongs to the owner.
func (h *Handler) requireTenant(c *gin.Context) (string, bool) {
	tenantID := c.Param("tenantID")
	_, err := h.db.GetTenant(ownerID(c), tenantID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return "", false
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve tenant")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve tenant"})
		return "", false
	}
	return tenantID, true
}

func (h *Handler) screeningView(s models.TenantScreening) models.ScreeningView {
	affordability := compliance.AffordabilityRatio(
		s.ProposedRent, s.MonthlyIncome, h.config.Compliance.AffordabilityRiskThreshold)
	return models.ScreeningView{
		TenantScreening:    s,
		AffordabilityRatio: affordability.Ratio,
		Risky:              affordability.Risky,
		IncomeUnknown:      affordability.Unknown,
	}
}

func (h *Handler) ListScreenings(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	recs, err := h.db.ListScreenings(ownerID(c), tenantID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get screenings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get screenings"})
		return
	}

	views := make([]models.ScreeningView, 0, len(recs))
	for _, s := range recs {
		views = append(views, h.screeningView(s))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CreateScreening(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var s models.TenantScreening
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid screening payload"})
		return
	}
	s.ID = ""
	s.OwnerID = ownerID(c)
	s.TenantID = tenantID

	if err := h.db.CreateScreening(&s); err != nil {
		h.writeChildError(c, err, "screening")
		return
	}
	c.JSON(http.StatusCreated, h.screeningView(s))
}

func (h *Handler) UpdateScreening(c *gin.Context) {
	var s models.TenantScreening
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid screening payload"})
		return
	}
	s.ID = c.Param("childID")
	s.OwnerID = ownerID(c)
	s.TenantID = c.Param("tenantID")

	if err := h.db.UpdateScreening(&s); err != nil {
		h.writeChildError(c, err, "screening")
		return
	}
	c.JSON(http.StatusOK, h.screeningView(s))
}

func (h *Handler) DeleteScreening(c *gin.Context) {
	if err := h.db.DeleteScreening(ownerID(c), c.Param("tenantID"), c.Param("childID")); err != nil {
		h.writeChildError(c, err, "screening")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Screening deleted"})
}
