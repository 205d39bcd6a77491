// internal/model/delivery_log.go
package model

import "time"

// Delivery statuses, as reported by the vendor receipt.
const (
	DeliveryStatusPending = "PENDING"
	DeliveryStatusSent    = "SENT"
	DeliveryStatusFailed  = "FAILED"
)

// DeliveryLog is the per-recipient record of one send attempt. It is
// created PENDING by the dispatcher and flipped once to SENT or FAILED
// when the vendor receipt arrives. Logs are never deleted.
type DeliveryLog struct {
	ID            string    `db:"id" json:"id"`
	CampaignID    int       `db:"campaign_id" json:"campaign_id"`
	CustomerID    int       `db:"customer_id" json:"customer_id"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`
	Message       string    `db:"message" json:"message"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
