package models

import "time"

const (
	TenantStatusActive   = "Active"
	TenantStatusArchived = "Archived"
)

type Tenant struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	OwnerID      string     `json:"owner_id" gorm:"index;not null"`
	PropertyID   string     `json:"property_id" gorm:"index;not null"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	TenancyStart *time.Time `json:"tenancy_start"`
	TenancyEnd   *time.Time `json:"tenancy_end"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
