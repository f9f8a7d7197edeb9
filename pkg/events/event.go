package events

import "time"

// Billing lifecycle event types consumed by the notification pipeline.
const (
	TypeSubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	TypePremiumRevoked        = "PREMIUM_REVOKED"
	TypePaymentFailed         = "PAYMENT_FAILED"
	TypeSubscriptionCanceled  = "SUBSCRIPTION_CANCELED"
	TypeDiscountOfferCreated  = "DISCOUNT_OFFER_CREATED"
	TypeDiscountOfferAccepted = "DISCOUNT_OFFER_ACCEPTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PAYMENT_FAILED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewBillingEvent builds a billing event with the occurred_at stamp embedded
// in the payload so subscribers do not depend on broker receive time.
func NewBillingEvent(eventType string, data map[string]interface{}) BaseEvent {
	now := time.Now()
	if data == nil {
		data = map[string]interface{}{}
	}
	data["occurred_at"] = now
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: now,
	}
}
