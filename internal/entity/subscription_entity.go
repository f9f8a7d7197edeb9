package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionStatusPaused            SubscriptionStatus = "paused"
	// SubscriptionStatusFree is the internal default. Stripe never emits it;
	// it means "no special access".
	SubscriptionStatusFree SubscriptionStatus = "free"
)

// Subscription is the durable record of a user's Stripe subscription.
// At most one per user; upserts are keyed on StripeSubscriptionId.
type Subscription struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	StripeSubscriptionId string
	StripeCustomerId     string
	Status               SubscriptionStatus
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool
	CanceledAt           *time.Time
	EndedAt              *time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
	LatestInvoiceId      *string // audit only, never read to derive status
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
