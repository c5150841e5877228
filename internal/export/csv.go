package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"rentsafe/server/internal/models"
)

// WritePropertiesCSV writes the property list export. Data arrives
// already fetched and filtered; this is pure formatting.
func WritePropertiesCSV(w io.Writer, properties []models.Property) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "address_line1", "address_line2", "city", "postcode",
		"property_type", "status", "bedrooms", "bathrooms",
		"monthly_rent", "deposit", "current_value",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range properties {
		row := []string{
			p.ID, p.AddressLine1, p.AddressLine2, p.City, p.Postcode,
			p.PropertyType, p.Status,
			strconv.Itoa(p.Bedrooms), strconv.Itoa(p.Bathrooms),
			optionalInt(p.MonthlyRent), optionalInt(p.Deposit), optionalInt(p.CurrentValue),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
