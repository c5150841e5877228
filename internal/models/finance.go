package models

import "time"

type Expense struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	OwnerID     string    `json:"owner_id" gorm:"index;not null"`
	PropertyID  string    `json:"property_id" gorm:"index;not null"`
	Amount      int64     `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rent payment statuses. A month with no stored payment reads as Pending.
const (
	RentStatusPaid    = "Paid"
	RentStatusLate    = "Late"
	RentStatusPending = "Pending"
)

type RentPayment struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	OwnerID    string     `json:"owner_id" gorm:"index;not null"`
	PropertyID string     `json:"property_id" gorm:"index;not null"`
	Amount     int64      `json:"amount"`
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	Status     string     `json:"status"`
	PaidDate   *time.Time `json:"paid_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// RentLedgerEntry is one property/month cell of the portfolio rent view.
type RentLedgerEntry struct {
	PropertyID string `json:"property_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
}
