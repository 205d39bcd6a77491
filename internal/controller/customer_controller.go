// internal/controller/customer_controller.go
package controller

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/xenocrm/backend/internal/model"
	"github.com/xenocrm/backend/internal/repository"
)

type CustomerController struct {
	CustomerRepo repository.CustomerRepositoryInterface
	OrderRepo    repository.OrderRepositoryInterface
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer model.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if customer.Name == "" || customer.Email == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}

	if err := c.CustomerRepo.Create(&customer); err != nil {
		http.Error(w, "failed to create customer: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(customer)
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.CustomerRepo.ListAll()
	if err != nil {
		http.Error(w, "failed to fetch customers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(customers)
}

// CreateOrder stores the order and folds it into the customer's spend,
// visit, and last-visit counters.
func (c *CustomerController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var order model.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if order.CustomerEmail == "" {
		http.Error(w, "customerEmail is required", http.StatusBadRequest)
		return
	}

	if err := c.OrderRepo.Create(&order); err != nil {
		http.Error(w, "failed to create order: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := c.CustomerRepo.ApplyOrder(order.CustomerEmail, order.Amount, time.Now()); err != nil {
		log.Println("⚠️ failed to update customer stats for", order.CustomerEmail, ":", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

func (c *CustomerController) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.OrderRepo.ListAll()
	if err != nil {
		http.Error(w, "failed to fetch orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}
