package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	appErrors "github.com/xenocrm/backend/internal/errors"
	"github.com/xenocrm/backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	ListAll() ([]model.Campaign, error)
	Count() (int, error)

	// Lifecycle transitions. MarkSending is the compare-and-set guarding
	// against double dispatch; IncrementDeliveryCounters is the atomic
	// read-modify-write that makes the completed flip race-free.
	MarkSending(campaignID int) (bool, error)
	MarkPending(campaignID int) error
	MarkCompleted(campaignID int) error
	IncrementDeliveryCounters(campaignID int, outcome string) (*model.Campaign, bool, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusPending
	}
	rulesJSON, err := json.Marshal(c.Rules)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO campaigns (name, message, rules, audience_size, sent_count, failed_count, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.Name, c.Message, rulesJSON, c.AudienceSize, c.SentCount, c.FailedCount, c.Status, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, name, message, rules, audience_size, sent_count, failed_count, status, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

// ListAll returns campaigns, newest first
func (r *CampaignRepository) ListAll() ([]model.Campaign, error) {
	query := `
        SELECT id, name, message, rules, audience_size, sent_count, failed_count, status, created_at, updated_at
        FROM campaigns
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Count() (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM campaigns`).Scan(&n)
	return n, err
}

// MarkSending flips pending→sending. The status guard makes a second
// start of the same campaign lose the race and report false.
func (r *CampaignRepository) MarkSending(campaignID int) (bool, error) {
	res, err := r.DB.Exec(
		`UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		model.CampaignStatusSending, campaignID, model.CampaignStatusPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// MarkPending reverts sending→pending after a failed dispatch.
func (r *CampaignRepository) MarkPending(campaignID int) error {
	_, err := r.DB.Exec(
		`UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		model.CampaignStatusPending, campaignID, model.CampaignStatusSending,
	)
	return err
}

// MarkCompleted closes a campaign that dispatched to an empty audience.
func (r *CampaignRepository) MarkCompleted(campaignID int) error {
	_, err := r.DB.Exec(
		`UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		model.CampaignStatusCompleted, campaignID, model.CampaignStatusSending,
	)
	return err
}

// IncrementDeliveryCounters adds one receipt outcome to the campaign in a
// single UPDATE, flipping status to completed in the same statement when
// the counters reach the audience size. The bool reports whether this
// call performed the flip; concurrent receipts can never both see it.
func (r *CampaignRepository) IncrementDeliveryCounters(campaignID int, outcome string) (*model.Campaign, bool, error) {
	var sentInc, failedInc int
	if outcome == model.DeliveryStatusSent {
		sentInc = 1
	} else {
		failedInc = 1
	}

	query := `
        UPDATE campaigns
        SET sent_count   = sent_count + $1,
            failed_count = failed_count + $2,
            status = CASE WHEN sent_count + failed_count + $1 + $2 >= audience_size
                          THEN 'completed' ELSE status END,
            updated_at = NOW()
        WHERE id = $3
        RETURNING id, name, message, rules, audience_size, sent_count, failed_count, status, created_at, updated_at
    `
	c, err := scanCampaign(r.DB.QueryRow(query, sentInc, failedInc, campaignID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, appErrors.NewCampaignNotFound(campaignID)
		}
		return nil, false, err
	}

	completed := c.Status == model.CampaignStatusCompleted &&
		c.SentCount+c.FailedCount == c.AudienceSize
	return c, completed, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	var rulesJSON []byte
	err := row.Scan(&c.ID, &c.Name, &c.Message, &rulesJSON, &c.AudienceSize, &c.SentCount, &c.FailedCount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &c.Rules); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
