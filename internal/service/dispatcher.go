// internal/service/dispatcher.go
package service

import (
	"log"

	appErrors "github.com/xenocrm/backend/internal/errors"
	"github.com/xenocrm/backend/internal/model"
	"github.com/xenocrm/backend/internal/repository"
	"github.com/xenocrm/backend/internal/rules"
	"github.com/xenocrm/backend/internal/sender"
)

// Dispatcher fans a campaign out to its audience: one PENDING delivery
// log per matched customer, each handed to the Sender without waiting
// for an outcome. Receipts may start arriving while later logs are still
// being created; the audience size recorded on the campaign, not the
// number of logs written so far, decides completion.
type Dispatcher struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	DeliveryRepo repository.DeliveryLogRepositoryInterface
	Sender       sender.Sender
}

func (d *Dispatcher) StartCampaign(campaignID int, ruleSet []model.Rule, template string) error {
	predicate, err := rules.Compile(ruleSet)
	if err != nil {
		return err
	}

	ok, err := d.CampaignRepo.MarkSending(campaignID)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.NewCampaignAlreadyStarted(campaignID)
	}

	customers, err := d.CustomerRepo.FindByPredicate(predicate)
	if err != nil {
		// Leave the campaign pending so a later start can run cleanly.
		if revertErr := d.CampaignRepo.MarkPending(campaignID); revertErr != nil {
			log.Println("⚠️ failed to revert campaign", campaignID, "to pending:", revertErr)
		}
		return appErrors.NewResolverUnavailable(err)
	}

	if len(customers) == 0 {
		// 0 sent + 0 failed already equals the audience size.
		return d.CampaignRepo.MarkCompleted(campaignID)
	}

	for _, customer := range customers {
		rendered := RenderMessage(template, customer.Name)
		entry := &model.DeliveryLog{
			CampaignID:    campaignID,
			CustomerID:    customer.ID,
			CustomerEmail: customer.Email,
			Message:       rendered,
			Status:        model.DeliveryStatusPending,
		}
		if err := d.DeliveryRepo.Create(entry); err != nil {
			log.Println("⚠️ failed to create delivery log for customer", customer.ID, ":", err)
			continue
		}
		d.Sender.Send(entry.ID, customer, rendered)
	}

	return nil
}
