package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapStripeStatus(t *testing.T) {
	cases := map[string]SubscriptionStatus{
		"incomplete":         SubscriptionStatusIncomplete,
		"incomplete_expired": SubscriptionStatusIncompleteExpired,
		"trialing":           SubscriptionStatusTrialing,
		"active":             SubscriptionStatusActive,
		"past_due":           SubscriptionStatusPastDue,
		"canceled":           SubscriptionStatusCanceled,
		"unpaid":             SubscriptionStatusUnpaid,
		"paused":             SubscriptionStatusPaused,
	}

	for raw, expected := range cases {
		assert.Equal(t, expected, MapStripeStatus(raw), "status %q", raw)
	}
}

func TestMapStripeStatusUnknownValues(t *testing.T) {
	// Anything Stripe invents later must degrade to free, never grant access.
	for _, raw := range []string{"", "ACTIVE", "some_future_status", "trialling"} {
		assert.Equal(t, SubscriptionStatusFree, MapStripeStatus(raw), "status %q", raw)
	}
}

func TestShouldGrantPremiumAccess(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	periodEnd := now.Add(10 * 24 * time.Hour)

	t.Run("nil subscription denies", func(t *testing.T) {
		assert.False(t, ShouldGrantPremiumAccess(nil, now))
	})

	t.Run("active and trialing grant", func(t *testing.T) {
		for _, status := range []SubscriptionStatus{SubscriptionStatusActive, SubscriptionStatusTrialing} {
			sub := &Subscription{Status: status}
			assert.True(t, ShouldGrantPremiumAccess(sub, now), "status %s", status)
		}
	})

	t.Run("terminal statuses deny", func(t *testing.T) {
		statuses := []SubscriptionStatus{
			SubscriptionStatusIncomplete,
			SubscriptionStatusIncompleteExpired,
			SubscriptionStatusCanceled,
			SubscriptionStatusUnpaid,
			SubscriptionStatusPaused,
			SubscriptionStatusFree,
		}
		for _, status := range statuses {
			sub := &Subscription{Status: status, CurrentPeriodEnd: &periodEnd}
			assert.False(t, ShouldGrantPremiumAccess(sub, now), "status %s", status)
		}
	})
}

func TestShouldGrantPremiumAccessGraceWindow(t *testing.T) {
	periodEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sub := &Subscription{
		Status:           SubscriptionStatusPastDue,
		CurrentPeriodEnd: &periodEnd,
	}

	t.Run("inside the window grants", func(t *testing.T) {
		at := periodEnd.Add(6*24*time.Hour + 23*time.Hour + 59*time.Minute + 59*time.Second)
		assert.True(t, ShouldGrantPremiumAccess(sub, at))
	})

	t.Run("exact boundary grants", func(t *testing.T) {
		at := periodEnd.Add(PaymentGracePeriod)
		assert.True(t, ShouldGrantPremiumAccess(sub, at))
	})

	t.Run("past the window denies", func(t *testing.T) {
		at := periodEnd.Add(7*24*time.Hour + time.Second)
		assert.False(t, ShouldGrantPremiumAccess(sub, at))
	})

	t.Run("no period end denies", func(t *testing.T) {
		noEnd := &Subscription{Status: SubscriptionStatusPastDue}
		assert.False(t, ShouldGrantPremiumAccess(noEnd, periodEnd))
	})
}

func TestDiscountOfferExpiredAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	offer := &DiscountOffer{ExpiresAt: now.Add(OfferTTL)}
	assert.False(t, offer.ExpiredAt(now.Add(24*time.Hour)))
	assert.True(t, offer.ExpiredAt(now.Add(OfferTTL+time.Second)))

	// The stored flag wins even before the deadline.
	flagged := &DiscountOffer{ExpiresAt: now.Add(OfferTTL), IsExpired: true}
	assert.True(t, flagged.ExpiredAt(now))
}
