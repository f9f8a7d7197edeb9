package dto

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatusResponse is the settings-page readout of a user's
// subscription.
type SubscriptionStatusResponse struct {
	Status            string     `json:"status"`
	PremiumAccess     bool       `json:"premium_access"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	InGracePeriod     bool       `json:"in_grace_period"`
}

type CancelSubscriptionResponse struct {
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
}

// --- Retention offers ---

type RejectOfferRequest struct {
	AmountCents int64 `json:"amount_cents" validate:"required,gt=0"`
}

type DiscountOfferResponse struct {
	Id              uuid.UUID  `json:"id"`
	OfferPriceCents int64      `json:"offer_price_cents"`
	DiscountPercent int        `json:"discount_percent"`
	SavingsCents    int64      `json:"savings_cents"`
	ExpiresAt       time.Time  `json:"expires_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
}
