// internal/model/customer.go
package model

import "time"

type Customer struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone,omitempty"`
	TotalSpends float64   `db:"total_spends" json:"totalSpends"`
	Visits      int       `db:"visits" json:"visits"`
	LastVisit   time.Time `db:"last_visit" json:"lastVisit"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
