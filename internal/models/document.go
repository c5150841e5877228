package models

import "time"

// Document compliance statuses. These are never persisted: status is a
// pure function of the expiry date and the current time, recomputed on
// every read (see internal/compliance).
const (
	DocumentStatusValid    = "Valid"
	DocumentStatusExpiring = "Expiring Soon"
	DocumentStatusExpired  = "Expired"
	DocumentStatusUnknown  = "Unknown"
)

type Document struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	OwnerID    string     `json:"owner_id" gorm:"index;not null"`
	PropertyID string     `json:"property_id" gorm:"index;not null"`
	Title      string     `json:"title"`
	DocType    string     `json:"doc_type"`
	IssueDate  *time.Time `json:"issue_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DocumentView is a Document plus its derived compliance status.
type DocumentView struct {
	Document
	Status string `json:"status"`
}
