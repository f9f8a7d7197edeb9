package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type subscriptionRepository struct {
	store *Store
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, existing := range r.store.subscriptions {
		if existing.StripeSubscriptionId == sub.StripeSubscriptionId {
			cp := *sub
			cp.Id = existing.Id
			r.store.subscriptions[id] = &cp
			sub.Id = existing.Id
			return nil
		}
	}

	if sub.Id == uuid.Nil {
		sub.Id = uuid.New()
	}
	cp := *sub
	r.store.subscriptions[sub.Id] = &cp
	return nil
}

func (r *subscriptionRepository) UpdateStatusAndInvoice(ctx context.Context, stripeSubscriptionId string, status entity.SubscriptionStatus, invoiceId *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.subscriptions {
		if existing.StripeSubscriptionId == stripeSubscriptionId {
			existing.Status = status
			if invoiceId != nil {
				existing.LatestInvoiceId = invoiceId
			}
			existing.UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *subscriptionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, sub := range r.store.subscriptions {
		if matchSubscription(sub, specs) {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *subscriptionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Subscription
	for _, sub := range r.store.subscriptions {
		if matchSubscription(sub, specs) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *subscriptionRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.subscriptions)), nil
}

func matchSubscription(sub *entity.Subscription, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if sub.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if sub.UserId != s.UserID {
				return false
			}
		case specification.ByStripeSubscriptionID:
			if sub.StripeSubscriptionId != s.StripeSubscriptionID {
				return false
			}
		case specification.ByStripeCustomerID:
			if sub.StripeCustomerId != s.StripeCustomerID {
				return false
			}
		case specification.GraceLapsedBefore:
			if sub.Status != entity.SubscriptionStatusPastDue {
				return false
			}
			if sub.CurrentPeriodEnd == nil || !sub.CurrentPeriodEnd.Before(s.Cutoff) {
				return false
			}
		default:
			panic(unsupportedSpec(spec))
		}
	}
	return true
}
