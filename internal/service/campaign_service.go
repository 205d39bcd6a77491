// internal/service/campaign_service.go
package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	appErrors "github.com/xenocrm/backend/internal/errors"
	"github.com/xenocrm/backend/internal/model"
	"github.com/xenocrm/backend/internal/repository"
	"github.com/xenocrm/backend/internal/rules"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	OrderRepo    repository.OrderRepositoryInterface
	DeliveryRepo repository.DeliveryLogRepositoryInterface
	Dispatcher   *Dispatcher
}

// PreviewAudience compiles a rule set and counts the customers it
// matches right now. Preview and dispatch share the same compiler, so a
// previewed count and a later dispatch agree unless the store changed in
// between.
func (s *CampaignService) PreviewAudience(ruleSet []model.Rule) (int, error) {
	predicate, err := rules.Compile(ruleSet)
	if err != nil {
		return 0, err
	}
	count, err := s.CustomerRepo.CountByPredicate(predicate)
	if err != nil {
		return 0, appErrors.NewResolverUnavailable(err)
	}
	return count, nil
}

// CreateCampaign resolves the audience size, stores the campaign as
// pending, and kicks off delivery in the background. The caller gets the
// campaign back immediately; completion is tracked through the counters.
func (s *CampaignService) CreateCampaign(name, message string, ruleSet []model.Rule) (*model.Campaign, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("campaign name cannot be empty")
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("campaign message cannot be empty")
	}

	predicate, err := rules.Compile(ruleSet)
	if err != nil {
		return nil, err
	}
	audienceSize, err := s.CustomerRepo.CountByPredicate(predicate)
	if err != nil {
		return nil, appErrors.NewResolverUnavailable(err)
	}

	c := &model.Campaign{
		Name:         name,
		Message:      message,
		Rules:        ruleSet,
		AudienceSize: audienceSize,
		Status:       model.CampaignStatusPending,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}

	go func() {
		if err := s.Dispatcher.StartCampaign(c.ID, ruleSet, message); err != nil {
			log.Println("⚠️ campaign dispatch failed for campaign", c.ID, ":", err)
		}
	}()

	return c, nil
}

func (s *CampaignService) ListCampaigns() ([]model.Campaign, error) {
	return s.CampaignRepo.ListAll()
}

func (s *CampaignService) GetCampaign(id int) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(id)
}

func (s *CampaignService) CampaignLogs(campaignID int) ([]model.DeliveryLog, error) {
	if _, err := s.CampaignRepo.GetByID(campaignID); err != nil {
		return nil, err
	}
	return s.DeliveryRepo.ListByCampaign(campaignID)
}

// DashboardStats summarizes store totals plus delivery activity over the
// last seven days.
func (s *CampaignService) DashboardStats() (map[string]int, error) {
	customers, err := s.CustomerRepo.Count()
	if err != nil {
		return nil, err
	}
	orders, err := s.OrderRepo.Count()
	if err != nil {
		return nil, err
	}
	campaigns, err := s.CampaignRepo.Count()
	if err != nil {
		return nil, err
	}
	recent, err := s.DeliveryRepo.CountSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	return map[string]int{
		"totalCustomers": customers,
		"totalOrders":    orders,
		"totalCampaigns": campaigns,
		"recentActivity": recent,
	}, nil
}
