package model

import (
	"time"

	"github.com/google/uuid"
)

type DiscountOffer struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_offers_user_subscription"`
	SubscriptionId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_offers_user_subscription"`
	OriginalPriceCents int64     `gorm:"not null"`
	UserInputCents     int64     `gorm:"not null"`
	OfferPriceCents    int64     `gorm:"not null"`
	DiscountPercent    int       `gorm:"not null"`
	SavingsCents       int64     `gorm:"not null"`
	ExpiresAt          time.Time `gorm:"not null;index"`
	IsExpired          bool      `gorm:"default:false"`
	AcceptedAt         *time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (DiscountOffer) TableName() string {
	return "discount_offers"
}
