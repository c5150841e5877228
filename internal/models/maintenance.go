package models

import "time"

const (
	MaintenanceStatusOpen       = "Open"
	MaintenanceStatusInProgress = "In Progress"
	MaintenanceStatusCompleted  = "Completed"
	MaintenanceStatusCancelled  = "Cancelled"
)

type MaintenanceLog struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	OwnerID         string     `json:"owner_id" gorm:"index;not null"`
	PropertyID      string     `json:"property_id" gorm:"index;not null"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	ContractorName  string     `json:"contractor_name"`
	ContractorPhone string     `json:"contractor_phone"`
	ScheduledDate   *time.Time `json:"scheduled_date"`
	Cost            *int64     `json:"cost"`
	ReportedAt      time.Time  `json:"reported_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
