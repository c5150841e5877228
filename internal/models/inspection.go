package models

import "time"

const (
	InspectionVariantSingleLet = "Single-Let"
	InspectionVariantHMO       = "HMO"

	InspectionStatusScheduled = "Scheduled"
	InspectionStatusCompleted = "Completed"
	InspectionStatusCancelled = "Cancelled"
)

// Checklist is a nested boolean checklist grouped by room or area,
// e.g. {"Kitchen": {"Smoke alarm present": true}}. The shape differs
// between Single-Let and HMO inspections but the storage does not care.
type Checklist map[string]map[string]bool

type Inspection struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	OwnerID       string     `json:"owner_id" gorm:"index;not null"`
	PropertyID    string     `json:"property_id" gorm:"index;not null"`
	Variant       string     `json:"variant"`
	Checklist     Checklist  `json:"checklist" gorm:"serializer:json"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
