package mapper

import (
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/model"
)

type DiscountOfferMapper struct{}

func NewDiscountOfferMapper() *DiscountOfferMapper {
	return &DiscountOfferMapper{}
}

func (m *DiscountOfferMapper) ToEntity(o *model.DiscountOffer) *entity.DiscountOffer {
	if o == nil {
		return nil
	}
	return &entity.DiscountOffer{
		Id:                 o.Id,
		UserId:             o.UserId,
		SubscriptionId:     o.SubscriptionId,
		OriginalPriceCents: o.OriginalPriceCents,
		UserInputCents:     o.UserInputCents,
		OfferPriceCents:    o.OfferPriceCents,
		DiscountPercent:    o.DiscountPercent,
		SavingsCents:       o.SavingsCents,
		ExpiresAt:          o.ExpiresAt,
		IsExpired:          o.IsExpired,
		AcceptedAt:         o.AcceptedAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func (m *DiscountOfferMapper) ToModel(o *entity.DiscountOffer) *model.DiscountOffer {
	if o == nil {
		return nil
	}
	return &model.DiscountOffer{
		Id:                 o.Id,
		UserId:             o.UserId,
		SubscriptionId:     o.SubscriptionId,
		OriginalPriceCents: o.OriginalPriceCents,
		UserInputCents:     o.UserInputCents,
		OfferPriceCents:    o.OfferPriceCents,
		DiscountPercent:    o.DiscountPercent,
		SavingsCents:       o.SavingsCents,
		ExpiresAt:          o.ExpiresAt,
		IsExpired:          o.IsExpired,
		AcceptedAt:         o.AcceptedAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}
