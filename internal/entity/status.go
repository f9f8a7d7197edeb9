package entity

import "time"

// PaymentGracePeriod is how long a past_due subscription keeps premium access
// after its paid period ends, tolerating transient card failures.
const PaymentGracePeriod = 7 * 24 * time.Hour

// MapStripeStatus translates Stripe's subscription status vocabulary into the
// internal enum. Total: unrecognized values map to free rather than erroring,
// so an unexpected provider value can never grant access by accident.
func MapStripeStatus(raw string) SubscriptionStatus {
	switch raw {
	case "incomplete":
		return SubscriptionStatusIncomplete
	case "incomplete_expired":
		return SubscriptionStatusIncompleteExpired
	case "trialing":
		return SubscriptionStatusTrialing
	case "active":
		return SubscriptionStatusActive
	case "past_due":
		return SubscriptionStatusPastDue
	case "canceled":
		return SubscriptionStatusCanceled
	case "unpaid":
		return SubscriptionStatusUnpaid
	case "paused":
		return SubscriptionStatusPaused
	default:
		return SubscriptionStatusFree
	}
}

// ShouldGrantPremiumAccess decides whether a subscription warrants premium
// access at the given instant. past_due keeps access through the grace window
// anchored on CurrentPeriodEnd; without a period end there is nothing to
// reason about and access is denied.
func ShouldGrantPremiumAccess(sub *Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	switch sub.Status {
	case SubscriptionStatusActive, SubscriptionStatusTrialing:
		return true
	case SubscriptionStatusPastDue:
		if sub.CurrentPeriodEnd == nil {
			return false
		}
		return !now.After(sub.CurrentPeriodEnd.Add(PaymentGracePeriod))
	default:
		return false
	}
}
