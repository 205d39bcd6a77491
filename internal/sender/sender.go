// internal/sender/sender.go
package sender

import (
	"math/rand"
	"time"

	"github.com/xenocrm/backend/internal/model"
)

// ReceiptFunc carries one vendor outcome back to the aggregation side.
type ReceiptFunc func(logID, outcome string)

// Sender submits one rendered message for delivery. Send must return
// without waiting for the vendor outcome; the outcome comes back later
// through the receipt channel.
type Sender interface {
	Send(logID string, customer model.Customer, message string)
}

// SimulatedVendor stands in for the external messaging API: each send
// succeeds with probability SuccessRate, after two independent random
// delays — one before the vendor accepts the message and one for its
// turnaround. The double jitter is what makes receipts arrive out of
// submission order, which the aggregation side has to cope with.
type SimulatedVendor struct {
	SuccessRate    float64
	DispatchJitter time.Duration
	ResponseMin    time.Duration
	ResponseJitter time.Duration
	Receipt        ReceiptFunc
}

func NewSimulatedVendor(receipt ReceiptFunc) *SimulatedVendor {
	return &SimulatedVendor{
		SuccessRate:    0.9,
		DispatchJitter: 5 * time.Second,
		ResponseMin:    time.Second,
		ResponseJitter: 2 * time.Second,
		Receipt:        receipt,
	}
}

func (v *SimulatedVendor) Send(logID string, _ model.Customer, _ string) {
	go func() {
		time.Sleep(randomDelay(v.DispatchJitter))

		outcome := model.DeliveryStatusFailed
		if rand.Float64() < v.SuccessRate {
			outcome = model.DeliveryStatusSent
		}

		time.Sleep(v.ResponseMin + randomDelay(v.ResponseJitter))
		v.Receipt(logID, outcome)
	}()
}

func randomDelay(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

var _ Sender = (*SimulatedVendor)(nil)
