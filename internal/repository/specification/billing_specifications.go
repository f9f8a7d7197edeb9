package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserOwnedBy filters rows by their owning user.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByStripeSubscriptionID filters subscriptions by the external subscription id.
type ByStripeSubscriptionID struct {
	StripeSubscriptionID string
}

func (s ByStripeSubscriptionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_subscription_id = ?", s.StripeSubscriptionID)
}

// ByStripeCustomerID filters by the external customer id.
type ByStripeCustomerID struct {
	StripeCustomerID string
}

func (s ByStripeCustomerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_customer_id = ?", s.StripeCustomerID)
}

// ByServer filters rows scoped to one server (community).
type ByServer struct {
	ServerID uuid.UUID
}

func (s ByServer) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("server_id = ?", s.ServerID)
}

// ByName filters by exact name match (roles).
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// BySubscription filters offers by the internal subscription id.
type BySubscription struct {
	SubscriptionID uuid.UUID
}

func (s BySubscription) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscription_id = ?", s.SubscriptionID)
}

// ExpiredBefore selects offers past their expiry that were never flagged.
// Used by the cleanup sweep.
type ExpiredBefore struct {
	Now time.Time
}

func (s ExpiredBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at < ? AND is_expired = false", s.Now)
}

// GraceLapsedBefore selects past_due subscriptions whose grace window ended
// before the cutoff, so the sweep can revoke access without a new webhook.
type GraceLapsedBefore struct {
	Cutoff time.Time
}

func (s GraceLapsedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND current_period_end IS NOT NULL AND current_period_end < ?", "past_due", s.Cutoff)
}
