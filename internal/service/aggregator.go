// internal/service/aggregator.go
package service

import (
	"fmt"
	"log"

	appErrors "github.com/xenocrm/backend/internal/errors"
	"github.com/xenocrm/backend/internal/model"
	"github.com/xenocrm/backend/internal/repository"
)

// Aggregator applies vendor receipts: one delivery-log flip plus one
// atomic campaign counter update per receipt, in any arrival order.
type Aggregator struct {
	CampaignRepo repository.CampaignRepositoryInterface
	DeliveryRepo repository.DeliveryLogRepositoryInterface
}

func (a *Aggregator) RecordReceipt(logID, outcome string) (*model.Campaign, error) {
	if outcome != model.DeliveryStatusSent && outcome != model.DeliveryStatusFailed {
		return nil, fmt.Errorf("unknown delivery outcome %q for log %s", outcome, logID)
	}

	entry, err := a.DeliveryRepo.GetByID(logID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, appErrors.NewUnknownRecord(logID)
	}

	updated, err := a.DeliveryRepo.MarkOutcome(logID, outcome)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Duplicate receipt; the first one already counted.
		log.Println("⚠️ duplicate receipt for delivery log", logID)
		return a.CampaignRepo.GetByID(entry.CampaignID)
	}

	campaign, completed, err := a.CampaignRepo.IncrementDeliveryCounters(entry.CampaignID, outcome)
	if err != nil {
		return nil, err
	}
	if completed {
		log.Println("✅ campaign", campaign.ID, "completed:", campaign.SentCount, "sent,", campaign.FailedCount, "failed")
	}
	return campaign, nil
}
