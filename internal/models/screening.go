package models

import "time"

const (
	ScreeningStatusPending   = "Pending"
	ScreeningStatusCompleted = "Completed"
)

type TenantScreening struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	OwnerID       string    `json:"owner_id" gorm:"index;not null"`
	TenantID      string    `json:"tenant_id" gorm:"index;not null"`
	Checklist     Checklist `json:"checklist" gorm:"serializer:json"`
	MonthlyIncome float64   `json:"monthly_income"`
	ProposedRent  float64   `json:"proposed_rent"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ScreeningView is a TenantScreening plus its derived affordability
// figures.
type ScreeningView struct {
	TenantScreening
	AffordabilityRatio float64 `json:"affordability_ratio"`
	Risky              bool    `json:"risky"`
	IncomeUnknown      bool    `json:"income_unknown"`
}
