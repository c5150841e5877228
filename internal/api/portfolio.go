package api

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rentsafe/server/internal/aggregator"
	"rentsafe/server/internal/compliance"
	"rentsafe/server/internal/geo"
	"rentsafe/server/internal/models"
)

// portfolioView resolves the owner's aggregator and reads one collection.
func (h *Handler) portfolioView(c *gin.Context, collection string) (aggregator.View, *aggregator.Aggregator, bool) {
	agg, err := h.hub.ForOwner(ownerID(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to start portfolio aggregator")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load portfolio"})
		return aggregator.View{}, nil, false
	}
	return agg.View(collection), agg, true
}

// PortfolioMaintenance serves the flattened maintenance view across every
// active property, most recently reported first. Sorting happens after
// flattening: the aggregator itself guarantees no cross-parent order.
func (h *Handler) PortfolioMaintenance(c *gin.Context) {
	view, _, ok := h.portfolioView(c, models.CollectionMaintenance)
	if !ok {
		return
	}

	logs := make([]models.MaintenanceLog, 0, len(view.Records))
	for _, rec := range view.Records {
		if m, isLog := rec.(models.MaintenanceLog); isLog {
			logs = append(logs, m)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].ReportedAt.After(logs[j].ReportedAt)
	})

	c.JSON(http.StatusOK, gin.H{
		"records": logs,
		"loading": view.Loading,
		"errors":  view.Errors,
	})
}

// PortfolioDocuments serves the flattened document view with compliance
// status derived per read, soonest expiry first.
func (h *Handler) PortfolioDocuments(c *gin.Context) {
	view, _, ok := h.portfolioView(c, models.CollectionDocuments)
	if !ok {
		return
	}

	now := time.Now()
	docs := make([]models.DocumentView, 0, len(view.Records))
	for _, rec := range view.Records {
		if d, isDoc := rec.(models.Document); isDoc {
			docs = append(docs, models.DocumentView{
				Document: d,
				Status:   compliance.DocumentStatus(d.ExpiryDate, now, h.config.Compliance.ExpiryWindowDays),
			})
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		// Documents without an expiry date sink to the end.
		if docs[i].ExpiryDate == nil {
			return false
		}
		if docs[j].ExpiryDate == nil {
			return true
		}
		return docs[i].ExpiryDate.Before(*docs[j].ExpiryDate)
	})

	c.JSON(http.StatusOK, gin.H{
		"records": docs,
		"loading": view.Loading,
		"errors":  view.Errors,
	})
}

// PortfolioInspections serves the flattened inspection view, most
// recently scheduled first.
func (h *Handler) PortfolioInspections(c *gin.Context) {
	view, _, ok := h.portfolioView(c, models.CollectionInspections)
	if !ok {
		return
	}

	inspections := make([]models.Inspection, 0, len(view.Records))
	for _, rec := range view.Records {
		if i, isInspection := rec.(models.Inspection); isInspection {
			inspections = append(inspections, i)
		}
	}
	sort.SliceStable(inspections, func(i, j int) bool {
		a, b := inspections[i].ScheduledDate, inspections[j].ScheduledDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})

	c.JSON(http.StatusOK, gin.H{
		"records": inspections,
		"loading": view.Loading,
		"errors":  view.Errors,
	})
}

// PortfolioRent serves the rent ledger: one bucket per active property
// per month of the requested year. Months without a stored payment read
// as Pending.
func (h *Handler) PortfolioRent(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	view, agg, ok := h.portfolioView(c, models.CollectionRentPayments)
	if !ok {
		return
	}

	payments := make([]models.RentPayment, 0, len(view.Records))
	for _, rec := range view.Records {
		if p, isPayment := rec.(models.RentPayment); isPayment && p.Year == year {
			payments = append(payments, p)
		}
	}

	var ledger []models.RentLedgerEntry
	for _, propertyID := range agg.Parents() {
		for month := 1; month <= 12; month++ {
			ledger = append(ledger, compliance.RentBucket(payments, propertyID, year, month))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"year":    year,
		"records": ledger,
		"loading": view.Loading,
		"errors":  view.Errors,
	})
}

// GetPortfolioStats serves the headline portfolio summary.
func (h *Handler) GetPortfolioStats(c *gin.Context) {
	owner := ownerID(c)

	byStatus, err := h.db.CountPropertiesByStatus(owner)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get portfolio stats"})
		return
	}

	var total int
	for _, status := range models.ActivePropertyStatuses {
		total += byStatus[status]
	}

	openMaintenance, err := h.db.CountOpenMaintenance(owner)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count open maintenance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get portfolio stats"})
		return
	}

	documents, err := h.db.ListOwnerDocuments(owner)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load documents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get portfolio stats"})
		return
	}

	now := time.Now()
	stats := models.PortfolioStats{
		TotalProperties: total,
		ByStatus:        byStatus,
		OpenMaintenance: openMaintenance,
	}
	for _, doc := range documents {
		switch compliance.DocumentStatus(doc.ExpiryDate, now, h.config.Compliance.ExpiryWindowDays) {
		case models.DocumentStatusExpired:
			stats.DocumentsExpired++
		case models.DocumentStatusExpiring:
			stats.DocumentsExpiring++
		case models.DocumentStatusValid:
			stats.DocumentsValid++
		}
	}

	collected, err := h.db.RentCollected(owner, now.Year(), int(now.Month()))
	if err != nil {
		h.logger.WithError(err).Error("Failed to sum rent collected")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get portfolio stats"})
		return
	}
	stats.RentCollected = collected

	properties, err := h.db.GetProperties(owner, "")
	if err != nil {
		h.logger.WithError(err).Error("Failed to load properties for bounds")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get portfolio stats"})
		return
	}
	stats.Bounds = geo.PortfolioBounds(properties)

	c.JSON(http.StatusOK, stats)
}
