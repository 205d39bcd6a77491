package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/xenocrm/backend/internal/controller"
	"github.com/xenocrm/backend/internal/db"
	"github.com/xenocrm/backend/internal/queue"
	"github.com/xenocrm/backend/internal/repository"
	"github.com/xenocrm/backend/internal/sender"
	"github.com/xenocrm/backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	customerRepo := &repository.CustomerRepository{DB: db.DB}
	orderRepo := &repository.OrderRepository{DB: db.DB}
	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	deliveryRepo := &repository.DeliveryLogRepository{DB: db.DB}

	aggregator := &service.Aggregator{
		CampaignRepo: campaignRepo,
		DeliveryRepo: deliveryRepo,
	}

	// Vendor receipts either flow through RabbitMQ (consumed by
	// cmd/worker) or through the in-process queue.
	var receipts queue.Publisher
	if url := os.Getenv("AMQP_URL"); url != "" {
		publisher, err := queue.NewAMQPPublisher(url)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer publisher.Close()
		receipts = publisher
	} else {
		q := queue.NewInMemoryQueue()
		queue.StartReceiptSubscriber(q, aggregator)
		receipts = q
	}

	vendor := sender.NewSimulatedVendor(func(logID, outcome string) {
		if err := receipts.Publish(queue.ReceiptTopic, queue.Receipt{LogID: logID, Status: outcome}); err != nil {
			log.Println("⚠️ failed to publish receipt for", logID, ":", err)
		}
	})

	dispatcher := &service.Dispatcher{
		CampaignRepo: campaignRepo,
		CustomerRepo: customerRepo,
		DeliveryRepo: deliveryRepo,
		Sender:       vendor,
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		CustomerRepo: customerRepo,
		OrderRepo:    orderRepo,
		DeliveryRepo: deliveryRepo,
		Dispatcher:   dispatcher,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		Aggregator:      aggregator,
	}
	customerController := &controller.CustomerController{
		CustomerRepo: customerRepo,
		OrderRepo:    orderRepo,
	}

	r := chi.NewRouter()

	r.Post("/api/customers", customerController.CreateCustomer)
	r.Get("/api/customers", customerController.ListCustomers)
	r.Post("/api/orders", customerController.CreateOrder)
	r.Get("/api/orders", customerController.ListOrders)

	r.Post("/api/campaigns/preview", campaignController.PreviewAudience)
	r.Post("/api/campaigns", campaignController.CreateCampaign)
	r.Get("/api/campaigns", campaignController.ListCampaigns)
	r.Get("/api/campaigns/{id}", campaignController.GetCampaign)
	r.Get("/api/campaigns/{id}/logs", campaignController.CampaignLogs)
	r.Post("/api/delivery-receipt", campaignController.DeliveryReceipt)
	r.Get("/api/dashboard/stats", campaignController.DashboardStats)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
