package models

import "time"

// Property status values. Deleted is a soft delete: the row stays in the
// store and is excluded from active queries.
const (
	PropertyStatusVacant      = "Vacant"
	PropertyStatusOccupied    = "Occupied"
	PropertyStatusMaintenance = "Under Maintenance"
	PropertyStatusDeleted     = "Deleted"
)

// ActivePropertyStatuses are the statuses included in portfolio queries.
var ActivePropertyStatuses = []string{
	PropertyStatusVacant,
	PropertyStatusOccupied,
	PropertyStatusMaintenance,
}

type Property struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	OwnerID       string    `json:"owner_id" gorm:"index;not null"`
	AddressLine1  string    `json:"address_line1"`
	AddressLine2  string    `json:"address_line2"`
	City          string    `json:"city"`
	Postcode      string    `json:"postcode"`
	PropertyType  string    `json:"property_type"`
	Status        string    `json:"status"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	MonthlyRent   *int      `json:"monthly_rent"`
	Deposit       *int      `json:"deposit"`
	PurchasePrice *int      `json:"purchase_price"`
	CurrentValue  *int      `json:"current_value"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PortfolioStats is the headline summary served by /api/stats.
type PortfolioStats struct {
	TotalProperties   int              `json:"total_properties"`
	ByStatus          map[string]int   `json:"by_status"`
	OpenMaintenance   int              `json:"open_maintenance"`
	DocumentsValid    int              `json:"documents_valid"`
	DocumentsExpiring int              `json:"documents_expiring"`
	DocumentsExpired  int              `json:"documents_expired"`
	RentCollected     int64            `json:"rent_collected"`
	Bounds            *PortfolioBounds `json:"bounds,omitempty"`
}

// PortfolioBounds is the geographic envelope of properties that carry
// coordinates.
type PortfolioBounds struct {
	MinLat      float64 `json:"min_lat"`
	MinLon      float64 `json:"min_lon"`
	MaxLat      float64 `json:"max_lat"`
	MaxLon      float64 `json:"max_lon"`
	CentroidLat float64 `json:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon"`
}
