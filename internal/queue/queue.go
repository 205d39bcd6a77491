package queue

import (
	"errors"
	"fmt"
	"log"
	"sync"

	appErrors "github.com/xenocrm/backend/internal/errors"
	"github.com/xenocrm/backend/internal/service"
)

// ReceiptTopic carries vendor delivery receipts to the aggregator.
const ReceiptTopic = "delivery_receipts"

// Receipt is the payload on the delivery_receipts topic.
type Receipt struct {
	LogID  string `json:"log_id"`
	Status string `json:"status"`
}

// Publisher pushes a payload onto a topic.
type Publisher interface {
	Publish(topic string, payload any) error
}

// Queue interface
type Queue interface {
	Publisher
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue fans published payloads out to subscribed handlers, each
// invocation on its own goroutine.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		h := handler
		go func() {
			if err := h(payload); err != nil {
				log.Printf("⚠️ handler failed for topic %s: %v\n", topic, err)
			}
		}()
	}

	return nil
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartReceiptSubscriber routes in-process vendor receipts into the
// aggregator. Receipts for unknown delivery logs are logged and dropped.
func StartReceiptSubscriber(q Queue, aggregator *service.Aggregator) {
	err := q.Subscribe(ReceiptTopic, func(payload any) error {
		receipt, ok := payload.(Receipt)
		if !ok {
			log.Println("⚠️ invalid payload type, expected queue.Receipt")
			return nil
		}

		if _, err := aggregator.RecordReceipt(receipt.LogID, receipt.Status); err != nil {
			var unknown *appErrors.ErrUnknownRecord
			if errors.As(err, &unknown) {
				log.Println("⚠️ dropping receipt:", err)
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		log.Println("⚠️ failed to subscribe to", ReceiptTopic, ":", err)
	}
}
