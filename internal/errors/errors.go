// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrInvalidRule reports an audience rule whose value (or operator) does
// not parse for its field type. Surfaced at compile time, before any
// campaign is created or started.
type ErrInvalidRule struct {
	Field    string
	Operator string
	Value    string
	Reason   string
}

func (e *ErrInvalidRule) Error() string {
	return fmt.Sprintf("invalid rule %s %s %q: %s", e.Field, e.Operator, e.Value, e.Reason)
}

func NewInvalidRule(field, operator, value, reason string) error {
	return &ErrInvalidRule{Field: field, Operator: operator, Value: value, Reason: reason}
}

// ErrResolverUnavailable wraps a customer-store failure during audience
// resolution. The caller aborts; nothing retries here.
type ErrResolverUnavailable struct {
	Cause error
}

func (e *ErrResolverUnavailable) Error() string {
	return fmt.Sprintf("audience resolver unavailable: %v", e.Cause)
}

func (e *ErrResolverUnavailable) Unwrap() error {
	return e.Cause
}

func NewResolverUnavailable(cause error) error {
	return &ErrResolverUnavailable{Cause: cause}
}

// ErrUnknownRecord is a receipt referencing a delivery log that was never
// created. Receipts like this are logged and dropped.
type ErrUnknownRecord struct {
	LogID string
}

func (e *ErrUnknownRecord) Error() string {
	return fmt.Sprintf("delivery log %s not found", e.LogID)
}

func NewUnknownRecord(logID string) error {
	return &ErrUnknownRecord{LogID: logID}
}

// ErrCampaignAlreadyStarted rejects a second StartCampaign for the same
// campaign; only the pending→sending transition may dispatch.
type ErrCampaignAlreadyStarted struct {
	CampaignID int
}

func (e *ErrCampaignAlreadyStarted) Error() string {
	return fmt.Sprintf("campaign %d already started", e.CampaignID)
}

func NewCampaignAlreadyStarted(id int) error {
	return &ErrCampaignAlreadyStarted{CampaignID: id}
}
