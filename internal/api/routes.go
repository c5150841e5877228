package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	api.Use(handler.RequireOwner)
	{
		api.GET("/properties", handler.ListProperties)
		api.POST("/properties", handler.CreateProperty)
		api.GET("/properties/:id", handler.GetProperty)
		api.PUT("/properties/:id", handler.UpdateProperty)
		api.DELETE("/properties/:id", handler.DeleteProperty)

		api.GET("/properties/:id/tenants", handler.ListTenants)
		api.POST("/properties/:id/tenants", handler.CreateTenant)
		api.PUT("/properties/:id/tenants/:childID", handler.UpdateTenant)
		api.DELETE("/properties/:id/tenants/:childID", handler.ArchiveTenant)

		api.GET("/properties/:id/maintenance", handler.ListMaintenanceLogs)
		api.POST("/properties/:id/maintenance", handler.CreateMaintenanceLog)
		api.PUT("/properties/:id/maintenance/:childID", handler.UpdateMaintenanceLog)
		api.DELETE("/properties/:id/maintenance/:childID", handler.DeleteMaintenanceLog)

		api.GET("/properties/:id/inspections", handler.ListInspections)
		api.POST("/properties/:id/inspections", handler.CreateInspection)
		api.PUT("/properties/:id/inspections/:childID", handler.UpdateInspection)
		api.DELETE("/properties/:id/inspections/:childID", handler.DeleteInspection)

		api.GET("/properties/:id/documents", handler.ListDocuments)
		api.POST("/properties/:id/documents", handler.CreateDocument)
		api.PUT("/properties/:id/documents/:childID", handler.UpdateDocument)
		api.DELETE("/properties/:id/documents/:childID", handler.DeleteDocument)

		api.GET("/properties/:id/expenses", handler.ListExpenses)
		api.POST("/properties/:id/expenses", handler.CreateExpense)
		api.PUT("/properties/:id/expenses/:childID", handler.UpdateExpense)
		api.DELETE("/properties/:id/expenses/:childID", handler.DeleteExpense)

		api.GET("/properties/:id/rent-payments", handler.ListRentPayments)
		api.POST("/properties/:id/rent-payments", handler.CreateRentPayment)
		api.PUT("/properties/:id/rent-payments/:childID", handler.UpdateRentPayment)
		api.DELETE("/properties/:id/rent-payments/:childID", handler.DeleteRentPayment)

		api.GET("/tenants/:tenantID/screenings", handler.ListScreenings)
		api.POST("/tenants/:tenantID/screenings", handler.CreateScreening)
		api.PUT("/tenants/:tenantID/screenings/:childID", handler.UpdateScreening)
		api.DELETE("/tenants/:tenantID/screenings/:childID", handler.DeleteScreening)

		api.GET("/portfolio/maintenance", handler.PortfolioMaintenance)
		api.GET("/portfolio/documents", handler.PortfolioDocuments)
		api.GET("/portfolio/inspections", handler.PortfolioInspections)
		api.GET("/portfolio/rent", handler.PortfolioRent)

		api.GET("/stats", handler.GetPortfolioStats)

		api.GET("/export/properties.csv", handler.ExportPropertiesCSV)
		api.GET("/export/compliance.pdf", handler.ExportCompliancePDF)
		api.GET("/export/tax-summary.pdf", handler.ExportTaxSummaryPDF)
		api.GET("/export/screenings/:screeningID", handler.ExportScreeningPDF)

		api.GET("/alerts/config", handler.GetAlertConfig)
		api.PUT("/alerts/config", handler.UpdateAlertConfig)
		api.POST("/alerts/test", handler.TestAlertConfig)
	}
}
