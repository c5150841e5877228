package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"rentsafe/server/internal/models"
)

// PropertyDocuments is one property's slice of the compliance report,
// with document statuses already derived by the caller.
type PropertyDocuments struct {
	Property  models.Property
	Documents []models.DocumentView
}

func newReport(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
	return pdf
}

// ComplianceReportPDF renders the portfolio compliance report: per
// property, every document with its derived status.
func ComplianceReportPDF(w io.Writer, groups []PropertyDocuments, now time.Time) error {
	pdf := newReport("Compliance Report")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", now.Format("02 Jan 2006")))
	pdf.Ln(10)

	for _, group := range groups {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("%s, %s %s",
			group.Property.AddressLine1, group.Property.City, group.Property.Postcode))
		pdf.Ln(9)

		if len(group.Documents) == 0 {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.Cell(0, 6, "No documents on file")
			pdf.Ln(8)
			continue
		}

		pdf.SetFont("Helvetica", "", 10)
		for _, doc := range group.Documents {
			expiry := "no expiry date"
			if doc.ExpiryDate != nil {
				expiry = doc.ExpiryDate.Format("02 Jan 2006")
			}
			pdf.Cell(80, 6, fmt.Sprintf("%s (%s)", doc.Title, doc.DocType))
			pdf.Cell(45, 6, expiry)
			pdf.Cell(0, 6, doc.Status)
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

// TaxSummaryPDF renders the yearly income/expense summary.
func TaxSummaryPDF(w io.Writer, year int, payments []models.RentPayment, expenses []models.Expense) error {
	pdf := newReport(fmt.Sprintf("Tax Summary %d", year))

	var income int64
	for _, p := range payments {
		if p.Status == models.RentStatusPaid {
			income += p.Amount
		}
	}

	byCategory := make(map[string]int64)
	var totalExpenses int64
	for _, e := range expenses {
		byCategory[e.Category] += e.Amount
		totalExpenses += e.Amount
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Rental income: %s", pounds(income)))
	pdf.Ln(10)

	pdf.Cell(0, 8, "Expenses")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for category, amount := range byCategory {
		if category == "" {
			category = "Uncategorised"
		}
		pdf.Cell(80, 6, category)
		pdf.Cell(0, 6, pounds(amount))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total expenses: %s", pounds(totalExpenses)))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Net position: %s", pounds(income-totalExpenses)))
	pdf.Ln(8)

	return pdf.Output(w)
}

// ScreeningReportPDF renders one tenant screening with its derived
// affordability figures.
func ScreeningReportPDF(w io.Writer, tenant models.Tenant, screening models.ScreeningView) error {
	pdf := newReport("Tenant Screening Report")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tenant.FullName)
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", screening.Status))
	pdf.Ln(7)

	if screening.IncomeUnknown {
		pdf.Cell(0, 6, "Affordability: income not declared")
	} else {
		risk := "within threshold"
		if screening.Risky {
			risk = "RISKY"
		}
		pdf.Cell(0, 6, fmt.Sprintf("Affordability: %.1f%% of income (%s)",
			screening.AffordabilityRatio, risk))
	}
	pdf.Ln(10)

	for section, items := range screening.Checklist {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, section)
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		for item, done := range items {
			mark := "[ ]"
			if done {
				mark = "[x]"
			}
			pdf.Cell(0, 6, fmt.Sprintf("%s %s", mark, item))
			pdf.Ln(6)
		}
		pdf.Ln(2)
	}

	return pdf.Output(w)
}

func pounds(pence int64) string {
	return fmt.Sprintf("GBP %.2f", float64(pence)/100)
}
