package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/mapper"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/model"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/contract"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type DiscountOfferRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DiscountOfferMapper
}

func NewDiscountOfferRepository(db *gorm.DB) contract.DiscountOfferRepository {
	return &DiscountOfferRepositoryImpl{
		db:     db,
		mapper: mapper.NewDiscountOfferMapper(),
	}
}

func (r *DiscountOfferRepositoryImpl) Upsert(ctx context.Context, offer *entity.DiscountOffer) error {
	m := r.mapper.ToModel(offer)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	m.UpdatedAt = time.Now()

	// accepted_at is in the assignment list so a re-offer clears a prior
	// unaccepted acceptance state; accepted offers are never upserted over
	// (the service refuses before reaching here).
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"original_price_cents",
			"user_input_cents",
			"offer_price_cents",
			"discount_percent",
			"savings_cents",
			"expires_at",
			"is_expired",
			"accepted_at",
			"updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	var stored model.DiscountOffer
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND subscription_id = ?", m.UserId, m.SubscriptionId).
		First(&stored).Error; err != nil {
		return err
	}
	*offer = *r.mapper.ToEntity(&stored)
	return nil
}

func (r *DiscountOfferRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiscountOffer, error) {
	var m model.DiscountOffer
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DiscountOfferRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiscountOffer, error) {
	var models []*model.DiscountOffer
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DiscountOffer, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DiscountOfferRepositoryImpl) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.DiscountOffer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_expired": true, "updated_at": time.Now()}).Error
}

func (r *DiscountOfferRepositoryImpl) MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.DiscountOffer{}).
		Where("id = ? AND accepted_at IS NULL", id).
		Updates(map[string]interface{}{"accepted_at": at, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DiscountOfferRepositoryImpl) ExpireAllBefore(ctx context.Context, now time.Time) (int64, error) {
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.DiscountOffer{}),
		specification.ExpiredBefore{Now: now})
	result := query.Updates(map[string]interface{}{"is_expired": true, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}
