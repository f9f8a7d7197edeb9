package mapper

import (
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                   s.Id,
		UserId:               s.UserId,
		StripeSubscriptionId: s.StripeSubscriptionId,
		StripeCustomerId:     s.StripeCustomerId,
		Status:               entity.SubscriptionStatus(s.Status),
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CanceledAt:           s.CanceledAt,
		EndedAt:              s.EndedAt,
		TrialStart:           s.TrialStart,
		TrialEnd:             s.TrialEnd,
		LatestInvoiceId:      s.LatestInvoiceId,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                   s.Id,
		UserId:               s.UserId,
		StripeSubscriptionId: s.StripeSubscriptionId,
		StripeCustomerId:     s.StripeCustomerId,
		Status:               string(s.Status),
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CanceledAt:           s.CanceledAt,
		EndedAt:              s.EndedAt,
		TrialStart:           s.TrialStart,
		TrialEnd:             s.TrialEnd,
		LatestInvoiceId:      s.LatestInvoiceId,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
