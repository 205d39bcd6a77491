package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/xenocrm/backend/internal/model"
)

type DeliveryLogRepositoryInterface interface {
	Create(l *model.DeliveryLog) error
	GetByID(id string) (*model.DeliveryLog, error)
	MarkOutcome(id, status string) (bool, error)
	ListByCampaign(campaignID int) ([]model.DeliveryLog, error)
	CountSince(t time.Time) (int, error)
}

type DeliveryLogRepository struct {
	DB *sql.DB
}

func (r *DeliveryLogRepository) Create(l *model.DeliveryLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = model.DeliveryStatusPending
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `
        INSERT INTO delivery_logs (id, campaign_id, customer_id, customer_email, message, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.Exec(query, l.ID, l.CampaignID, l.CustomerID, l.CustomerEmail, l.Message, l.Status, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *DeliveryLogRepository) GetByID(id string) (*model.DeliveryLog, error) {
	query := `
        SELECT id, campaign_id, customer_id, customer_email, message, status, created_at, updated_at
        FROM delivery_logs
        WHERE id=$1
    `
	var l model.DeliveryLog
	err := r.DB.QueryRow(query, id).Scan(
		&l.ID, &l.CampaignID, &l.CustomerID, &l.CustomerEmail,
		&l.Message, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// MarkOutcome flips a PENDING log to its final status. The status guard
// makes a duplicate receipt report false instead of overwriting, so the
// caller knows not to count it again.
func (r *DeliveryLogRepository) MarkOutcome(id, status string) (bool, error) {
	res, err := r.DB.Exec(
		`UPDATE delivery_logs SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		status, id, model.DeliveryStatusPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *DeliveryLogRepository) ListByCampaign(campaignID int) ([]model.DeliveryLog, error) {
	query := `
        SELECT id, campaign_id, customer_id, customer_email, message, status, created_at, updated_at
        FROM delivery_logs
        WHERE campaign_id=$1
        ORDER BY created_at
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.DeliveryLog{}
	for rows.Next() {
		var l model.DeliveryLog
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.CustomerID, &l.CustomerEmail, &l.Message, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *DeliveryLogRepository) CountSince(t time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM delivery_logs WHERE created_at >= $1`, t).Scan(&n)
	return n, err
}

var _ DeliveryLogRepositoryInterface = (*DeliveryLogRepository)(nil)
