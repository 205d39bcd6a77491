// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/xenocrm/backend/internal/errors"
	"github.com/xenocrm/backend/internal/model"
	"github.com/xenocrm/backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Aggregator      *service.Aggregator
}

// PreviewAudience counts the customers a rule set would reach, using the
// same compiler the dispatcher uses.
func (c *CampaignController) PreviewAudience(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rules []model.Rule `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	count, err := c.CampaignService.PreviewAudience(body.Rules)
	if err != nil {
		var invalid *appErrors.ErrInvalidRule
		if errors.As(err, &invalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"count": count})
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string       `json:"name"`
		Message string       `json:"message"`
		Rules   []model.Rule `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(body.Name, body.Message, body.Rules)
	if err != nil {
		var invalid *appErrors.ErrInvalidRule
		if errors.As(err, &invalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var unavailable *appErrors.ErrResolverUnavailable
		if errors.As(err, &unavailable) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignService.ListCampaigns()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaigns)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.GetCampaign(id)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) CampaignLogs(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	logs, err := c.CampaignService.CampaignLogs(id)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}

// DeliveryReceipt is the callback the vendor invokes with one outcome.
func (c *CampaignController) DeliveryReceipt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LogID  string `json:"log_id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if _, err := c.Aggregator.RecordReceipt(body.LogID, body.Status); err != nil {
		var unknown *appErrors.ErrUnknownRecord
		if errors.As(err, &unknown) {
			log.Println("⚠️ dropping receipt:", err)
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (c *CampaignController) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.CampaignService.DashboardStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
