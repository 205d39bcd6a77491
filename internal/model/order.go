// internal/model/order.go
package model

import "time"

// Order feeds the customer's spend/visit counters; it is never read back
// by the delivery pipeline itself.
type Order struct {
	ID            int       `db:"id" json:"id"`
	CustomerEmail string    `db:"customer_email" json:"customerEmail"`
	Amount        float64   `db:"amount" json:"amount"`
	Date          time.Time `db:"date" json:"date"`
	Items         []string  `db:"items" json:"items"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
