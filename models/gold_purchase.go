// models/gold_purchase.go
package models

import "time"

// GoldPurchase records one external payment credit. PaymentReference is the
// idempotency key: the unique index makes "record once, then credit" safe
// against webhook redelivery.
type GoldPurchase struct {
	ID               string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID           string    `gorm:"type:uuid;not null;index" json:"user_id"`
	PaymentReference string    `gorm:"uniqueIndex;not null" json:"payment_reference"`
	GoldAmount       int64     `gorm:"not null" json:"gold_amount"`
	ProcessedAt      time.Time `gorm:"not null" json:"processed_at"`

	Timestamps
}
