package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rentsafe/server/internal/compliance"
	"rentsafe/server/internal/database"
	"rentsafe/server/internal/export"
	"rentsafe/server/internal/models"
)

// ExportPropertiesCSV streams the active property list as CSV.
func (h *Handler) ExportPropertiesCSV(c *gin.Context) {
	properties, err := h.db.GetProperties(ownerID(c), "")
	if err != nil {
		h.logger.WithError(err).Error("Failed to load properties for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export properties"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="properties.csv"`)
	if err := export.WritePropertiesCSV(c.Writer, properties); err != nil {
		h.logger.WithError(err).Error("Failed to write property CSV")
	}
}

// ExportCompliancePDF streams the portfolio compliance report. Statuses
// are derived here, against the current clock, from already-fetched data.
func (h *Handler) ExportCompliancePDF(c *gin.Context) {
	owner := ownerID(c)
	properties, err := h.db.GetProperties(owner, "")
	if err != nil {
		h.logger.WithError(err).Error("Failed to load properties for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export compliance report"})
		return
	}

	now := time.Now()
	groups := make([]export.PropertyDocuments, 0, len(properties))
	for _, p := range properties {
		documents, err := h.db.ListDocuments(owner, p.ID)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load documents for export")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export compliance report"})
			return
		}

		views := make([]models.DocumentView, 0, len(documents))
		for _, doc := range documents {
			views = append(views, models.DocumentView{
				Document: doc,
				Status:   compliance.DocumentStatus(doc.ExpiryDate, now, h.config.Compliance.ExpiryWindowDays),
			})
		}
		groups = append(groups, export.PropertyDocuments{Property: p, Documents: views})
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="compliance-report.pdf"`)
	if err := export.ComplianceReportPDF(c.Writer, groups, now); err != nil {
		h.logger.WithError(err).Error("Failed to write compliance PDF")
	}
}

// ExportTaxSummaryPDF streams the yearly income and expense summary.
func (h *Handler) ExportTaxSummaryPDF(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	owner := ownerID(c)
	payments, err := h.db.ListOwnerRentPayments(owner, year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load rent payments for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export tax summary"})
		return
	}
	expenses, err := h.db.ListOwnerExpenses(owner, year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load expenses for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export tax summary"})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="tax-summary.pdf"`)
	if err := export.TaxSummaryPDF(c.Writer, year, payments, expenses); err != nil {
		h.logger.WithError(err).Error("Failed to write tax summary PDF")
	}
}

// ExportScreeningPDF streams one tenant screening report.
func (h *Handler) ExportScreeningPDF(c *gin.Context) {
	owner := ownerID(c)
	screening, err := h.db.GetScreening(owner, c.Param("screeningID"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Screening not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load screening for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export screening report"})
		return
	}

	tenant, err := h.db.GetTenant(owner, screening.TenantID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load tenant for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export screening report"})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="screening-report.pdf"`)
	if err := export.ScreeningReportPDF(c.Writer, *tenant, h.screeningView(*screening)); err != nil {
		h.logger.WithError(err).Error("Failed to write screening PDF")
	}
}
