package controller_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xenocrm/backend/internal/controller"
	appErrors "github.com/xenocrm/backend/internal/errors"
	"github.com/xenocrm/backend/internal/model"
	"github.com/xenocrm/backend/internal/repository"
	"github.com/xenocrm/backend/internal/rules"
	"github.com/xenocrm/backend/internal/service"
)

type fakeCustomerRepo struct {
	mu        sync.Mutex
	seq       int
	customers []model.Customer
}

func (f *fakeCustomerRepo) Create(c *model.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = f.seq
	f.customers = append(f.customers, *c)
	return nil
}

func (f *fakeCustomerRepo) GetByID(id int) (*model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.customers {
		if f.customers[i].ID == id {
			c := f.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) ListAll() ([]model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Customer{}, f.customers...), nil
}

func (f *fakeCustomerRepo) Count() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.customers), nil
}

func (f *fakeCustomerRepo) CountByPredicate(p *rules.Predicate) (int, error) {
	matched, err := f.FindByPredicate(p)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (f *fakeCustomerRepo) FindByPredicate(p *rules.Predicate) ([]model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []model.Customer{}
	for i := range f.customers {
		if p.Eval(&f.customers[i]) {
			matched = append(matched, f.customers[i])
		}
	}
	return matched, nil
}

func (f *fakeCustomerRepo) ApplyOrder(email string, amount float64, visitedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.customers {
		if f.customers[i].Email == email {
			f.customers[i].TotalSpends += amount
			f.customers[i].Visits++
			f.customers[i].LastVisit = visitedAt
		}
	}
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	seq    int
	orders []model.Order
}

func (f *fakeOrderRepo) Create(o *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	o.ID = f.seq
	f.orders = append(f.orders, *o)
	return nil
}

func (f *fakeOrderRepo) ListAll() ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Order{}, f.orders...), nil
}

func (f *fakeOrderRepo) Count() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders), nil
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	seq       int
	campaigns map[int]*model.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[int]*model.Campaign{}}
}

func (f *fakeCampaignRepo) Create(c *model.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = f.seq
	c.CreatedAt = time.Now()
	stored := *c
	f.campaigns[c.ID] = &stored
	return nil
}

func (f *fakeCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCampaignRepo) ListAll() ([]model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Campaign{}
	for _, c := range f.campaigns {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCampaignRepo) Count() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.campaigns), nil
}

func (f *fakeCampaignRepo) MarkSending(campaignID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok || c.Status != model.CampaignStatusPending {
		return false, nil
	}
	c.Status = model.CampaignStatusSending
	return true, nil
}

func (f *fakeCampaignRepo) MarkPending(campaignID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.campaigns[campaignID]; ok && c.Status == model.CampaignStatusSending {
		c.Status = model.CampaignStatusPending
	}
	return nil
}

func (f *fakeCampaignRepo) MarkCompleted(campaignID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.campaigns[campaignID]; ok && c.Status == model.CampaignStatusSending {
		c.Status = model.CampaignStatusCompleted
	}
	return nil
}

func (f *fakeCampaignRepo) IncrementDeliveryCounters(campaignID int, outcome string) (*model.Campaign, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok {
		return nil, false, appErrors.NewCampaignNotFound(campaignID)
	}
	if outcome == model.DeliveryStatusSent {
		c.SentCount++
	} else {
		c.FailedCount++
	}
	completed := false
	if c.Status != model.CampaignStatusCompleted && c.SentCount+c.FailedCount >= c.AudienceSize {
		c.Status = model.CampaignStatusCompleted
		completed = true
	}
	copied := *c
	return &copied, completed, nil
}

type fakeDeliveryRepo struct {
	mu   sync.Mutex
	seq  int
	logs map[string]*model.DeliveryLog
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{logs: map[string]*model.DeliveryLog{}}
}

func (f *fakeDeliveryRepo) Create(l *model.DeliveryLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if l.ID == "" {
		l.ID = fmt.Sprintf("log-%d", f.seq)
	}
	if l.Status == "" {
		l.Status = model.DeliveryStatusPending
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	stored := *l
	f.logs[l.ID] = &stored
	return nil
}

func (f *fakeDeliveryRepo) GetByID(id string) (*model.DeliveryLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (f *fakeDeliveryRepo) MarkOutcome(id, status string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok || l.Status != model.DeliveryStatusPending {
		return false, nil
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeDeliveryRepo) ListByCampaign(campaignID int) ([]model.DeliveryLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.DeliveryLog{}
	for _, l := range f.logs {
		if l.CampaignID == campaignID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeDeliveryRepo) CountSince(t time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.logs {
		if !l.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

// noopSender keeps delivery logs pending so handler tests see stable state.
type noopSender struct{}

func (noopSender) Send(string, model.Customer, string) {}

var (
	_ repository.CustomerRepositoryInterface    = (*fakeCustomerRepo)(nil)
	_ repository.OrderRepositoryInterface       = (*fakeOrderRepo)(nil)
	_ repository.CampaignRepositoryInterface    = (*fakeCampaignRepo)(nil)
	_ repository.DeliveryLogRepositoryInterface = (*fakeDeliveryRepo)(nil)
)

// testEnv wires the full HTTP surface against in-memory repositories.
type testEnv struct {
	customers *fakeCustomerRepo
	orders    *fakeOrderRepo
	campaigns *fakeCampaignRepo
	logs      *fakeDeliveryRepo
	router    chi.Router
}

func newTestEnv() *testEnv {
	customers := &fakeCustomerRepo{}
	orders := &fakeOrderRepo{}
	campaigns := newFakeCampaignRepo()
	logs := newFakeDeliveryRepo()

	aggregator := &service.Aggregator{CampaignRepo: campaigns, DeliveryRepo: logs}
	dispatcher := &service.Dispatcher{
		CampaignRepo: campaigns,
		CustomerRepo: customers,
		DeliveryRepo: logs,
		Sender:       noopSender{},
	}
	campaignService := &service.CampaignService{
		CampaignRepo: campaigns,
		CustomerRepo: customers,
		OrderRepo:    orders,
		DeliveryRepo: logs,
		Dispatcher:   dispatcher,
	}

	campaignController := &controller.CampaignController{CampaignService: campaignService, Aggregator: aggregator}
	customerController := &controller.CustomerController{CustomerRepo: customers, OrderRepo: orders}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/customers", customerController.CreateCustomer)
		r.Get("/customers", customerController.ListCustomers)
		r.Post("/orders", customerController.CreateOrder)
		r.Get("/orders", customerController.ListOrders)
		r.Post("/campaigns/preview", campaignController.PreviewAudience)
		r.Post("/campaigns", campaignController.CreateCampaign)
		r.Get("/campaigns", campaignController.ListCampaigns)
		r.Get("/campaigns/{id}", campaignController.GetCampaign)
		r.Get("/campaigns/{id}/logs", campaignController.CampaignLogs)
		r.Post("/delivery-receipt", campaignController.DeliveryReceipt)
		r.Get("/dashboard/stats", campaignController.DashboardStats)
	})

	return &testEnv{customers: customers, orders: orders, campaigns: campaigns, logs: logs, router: r}
}
