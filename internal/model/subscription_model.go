package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId               uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	StripeSubscriptionId string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	StripeCustomerId     string     `gorm:"type:varchar(255);not null;index"`
	Status               string     `gorm:"type:varchar(50);not null;default:'free'"`
	CurrentPeriodStart   *time.Time `gorm:""`
	CurrentPeriodEnd     *time.Time `gorm:""`
	CancelAtPeriodEnd    bool       `gorm:"default:false"`
	CanceledAt           *time.Time `gorm:""`
	EndedAt              *time.Time `gorm:""`
	TrialStart           *time.Time `gorm:""`
	TrialEnd             *time.Time `gorm:""`
	LatestInvoiceId      *string    `gorm:"type:varchar(255)"`
	CreatedAt            time.Time  `gorm:"autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
