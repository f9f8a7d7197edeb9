package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MinOfferPriceCents is the hard price floor for retention offers.
	// The nominal discount is clipped so the offer never drops below it.
	MinOfferPriceCents = 2000

	// OfferTTL is how long a rejected-checkout offer stays claimable.
	OfferTTL = 48 * time.Hour

	MinDiscountPercent = 5
	MaxDiscountPercent = 10
)

// DiscountOffer is a time-bounded retention offer presented during the
// cancellation flow. At most one active offer per (UserId, SubscriptionId).
type DiscountOffer struct {
	Id                 uuid.UUID
	UserId             uuid.UUID
	SubscriptionId     uuid.UUID
	OriginalPriceCents int64
	UserInputCents     int64
	OfferPriceCents    int64
	DiscountPercent    int
	SavingsCents       int64
	ExpiresAt          time.Time
	IsExpired          bool
	AcceptedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (o *DiscountOffer) ExpiredAt(now time.Time) bool {
	return o.IsExpired || now.After(o.ExpiresAt)
}
