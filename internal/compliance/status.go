package compliance

import (
	"time"

	"rentsafe/server/internal/models"
)

// DefaultExpiryWindowDays is how far ahead of expiry a document counts as
// Expiring Soon.
const DefaultExpiryWindowDays = 90

// DefaultRiskThreshold is the affordability ratio (percent) above which a
// screening is flagged risky.
const DefaultRiskThreshold = 40.0

// DocumentStatus derives the compliance status of a document from its
// expiry date and the current time. It is never persisted: "now" moves, so
// the status must be recomputed on every read.
//
//	Expired       expiry < now
//	Expiring Soon now <= expiry < now + window
//	Valid         otherwise
//
// A nil expiry reads as Unknown rather than failing.
func DocumentStatus(expiry *time.Time, now time.Time, windowDays int) string {
	if expiry == nil {
		return models.DocumentStatusUnknown
	}
	if expiry.Before(now) {
		return models.DocumentStatusExpired
	}
	if expiry.Before(now.AddDate(0, 0, windowDays)) {
		return models.DocumentStatusExpiring
	}
	return models.DocumentStatusValid
}

// Affordability is the derived output of an affordability check.
type Affordability struct {
	Ratio   float64
	Risky   bool
	Unknown bool
}

// AffordabilityRatio computes rent as a percentage of monthly income.
// Ratios above the threshold are flagged risky. A zero or negative income
// cannot be assessed and reads as unknown, not risky.
func AffordabilityRatio(rent, income, threshold float64) Affordability {
	if income <= 0 {
		return Affordability{Unknown: true}
	}
	ratio := rent / income * 100
	return Affordability{
		Ratio: ratio,
		Risky: ratio > threshold,
	}
}

// RentBucket reports the ledger status for a property month: the stored
// payment status if a payment row exists for that month, else Pending.
func RentBucket(payments []models.RentPayment, propertyID string, year, month int) models.RentLedgerEntry {
	for _, p := range payments {
		if p.PropertyID == propertyID && p.Year == year && p.Month == month {
			return models.RentLedgerEntry{
				PropertyID: propertyID,
				Year:       year,
				Month:      month,
				Amount:     p.Amount,
				Status:     p.Status,
			}
		}
	}
	return models.RentLedgerEntry{
		PropertyID: propertyID,
		Year:       year,
		Month:      month,
		Status:     models.RentStatusPending,
	}
}
