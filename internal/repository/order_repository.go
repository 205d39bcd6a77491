package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/xenocrm/backend/internal/model"
)

type OrderRepositoryInterface interface {
	Create(o *model.Order) error
	ListAll() ([]model.Order, error)
	Count() (int, error)
}

type OrderRepository struct {
	DB *sql.DB
}

func (r *OrderRepository) Create(o *model.Order) error {
	if o.Date.IsZero() {
		o.Date = time.Now()
	}
	o.CreatedAt = time.Now()
	query := `
        INSERT INTO orders (customer_email, amount, date, items, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, o.CustomerEmail, o.Amount, o.Date, pq.Array(o.Items), o.CreatedAt).Scan(&o.ID)
}

// ListAll returns orders, newest first
func (r *OrderRepository) ListAll() ([]model.Order, error) {
	query := `
        SELECT id, customer_email, amount, date, items, created_at
        FROM orders
        ORDER BY date DESC
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerEmail, &o.Amount, &o.Date, pq.Array(&o.Items), &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Count() (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

var _ OrderRepositoryInterface = (*OrderRepository)(nil)
