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

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

// subscriptionUpsertColumns are overwritten on conflict. Everything except
// the primary key, the conflict key and created_at: the incoming fetch is
// authoritative, so this is a full replace, not a merge.
var subscriptionUpsertColumns = []string{
	"user_id",
	"stripe_customer_id",
	"status",
	"current_period_start",
	"current_period_end",
	"cancel_at_period_end",
	"canceled_at",
	"ended_at",
	"trial_start",
	"trial_end",
	"latest_invoice_id",
	"updated_at",
}

func (r *SubscriptionRepositoryImpl) Upsert(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	m.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns(subscriptionUpsertColumns),
	}).Create(m).Error
	if err != nil {
		return err
	}

	// Re-read by the conflict key: on update the surviving row keeps its
	// original primary key, not the candidate one.
	var stored model.Subscription
	if err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", m.StripeSubscriptionId).
		First(&stored).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(&stored)
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateStatusAndInvoice(ctx context.Context, stripeSubscriptionId string, status entity.SubscriptionStatus, invoiceId *string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if invoiceId != nil {
		updates["latest_invoice_id"] = *invoiceId
	}
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionId).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Subscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Count(&count).Error
	return count, err
}
