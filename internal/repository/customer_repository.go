package repository

import (
	"database/sql"
	"time"

	"github.com/xenocrm/backend/internal/model"
	"github.com/xenocrm/backend/internal/rules"
)

// CustomerRepositoryInterface defines methods used by services. The
// predicate methods are the audience-resolver boundary: every call reads
// the store fresh, no caching.
type CustomerRepositoryInterface interface {
	Create(c *model.Customer) error
	GetByID(id int) (*model.Customer, error)
	ListAll() ([]model.Customer, error)
	Count() (int, error)
	CountByPredicate(p *rules.Predicate) (int, error)
	FindByPredicate(p *rules.Predicate) ([]model.Customer, error)
	ApplyOrder(email string, amount float64, visitedAt time.Time) error
}

// CustomerRepository is the concrete Postgres implementation
type CustomerRepository struct {
	DB *sql.DB
}

func (r *CustomerRepository) Create(c *model.Customer) error {
	if c.LastVisit.IsZero() {
		c.LastVisit = time.Now()
	}
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO customers (name, email, phone, total_spends, visits, last_visit, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.Name, c.Email, c.Phone, c.TotalSpends, c.Visits, c.LastVisit, c.CreatedAt).Scan(&c.ID)
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := `
        SELECT id, name, email, phone, total_spends, visits, last_visit, created_at
        FROM customers
        WHERE id = $1
    `
	var c model.Customer
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.TotalSpends, &c.Visits, &c.LastVisit, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ListAll() ([]model.Customer, error) {
	query := `
        SELECT id, name, email, phone, total_spends, visits, last_visit, created_at
        FROM customers
        ORDER BY id
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (r *CustomerRepository) Count() (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}

// CountByPredicate counts the audience a compiled predicate selects.
func (r *CustomerRepository) CountByPredicate(p *rules.Predicate) (int, error) {
	clause, args, _ := p.SQL(1)
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM customers WHERE `+clause, args...).Scan(&n)
	return n, err
}

// FindByPredicate fetches the audience a compiled predicate selects.
func (r *CustomerRepository) FindByPredicate(p *rules.Predicate) ([]model.Customer, error) {
	clause, args, _ := p.SQL(1)
	query := `
        SELECT id, name, email, phone, total_spends, visits, last_visit, created_at
        FROM customers
        WHERE ` + clause + `
        ORDER BY id
    `
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// ApplyOrder folds one order into the customer's running totals. A
// missing email is a silent no-op, matching how orders have always been
// ingested.
func (r *CustomerRepository) ApplyOrder(email string, amount float64, visitedAt time.Time) error {
	query := `
        UPDATE customers
        SET total_spends = total_spends + $1, visits = visits + 1, last_visit = $2
        WHERE email = $3
    `
	_, err := r.DB.Exec(query, amount, visitedAt, email)
	return err
}

func scanCustomers(rows *sql.Rows) ([]model.Customer, error) {
	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.TotalSpends, &c.Visits, &c.LastVisit, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
