// internal/model/campaign.go
package model

import "time"

const (
	CampaignStatusPending   = "pending"
	CampaignStatusSending   = "sending"
	CampaignStatusCompleted = "completed"
)

// Campaign tracks one message blast. AudienceSize is resolved once at
// creation time; SentCount+FailedCount never exceeds it, and Status flips
// to completed exactly when the two counters reach it.
type Campaign struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Message      string     `db:"message" json:"message"`
	Rules        []Rule     `db:"rules" json:"rules"`
	AudienceSize int        `db:"audience_size" json:"audienceSize"`
	SentCount    int        `db:"sent_count" json:"sentCount"`
	FailedCount  int        `db:"failed_count" json:"failedCount"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
