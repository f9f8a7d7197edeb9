package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type discountOfferRepository struct {
	store *Store
}

func (r *discountOfferRepository) Upsert(ctx context.Context, offer *entity.DiscountOffer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, existing := range r.store.offers {
		if existing.UserId == offer.UserId && existing.SubscriptionId == offer.SubscriptionId {
			cp := *offer
			cp.Id = existing.Id
			r.store.offers[id] = &cp
			offer.Id = existing.Id
			return nil
		}
	}

	if offer.Id == uuid.Nil {
		offer.Id = uuid.New()
	}
	cp := *offer
	r.store.offers[offer.Id] = &cp
	return nil
}

func (r *discountOfferRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiscountOffer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, offer := range r.store.offers {
		if matchOffer(offer, specs) {
			cp := *offer
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *discountOfferRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiscountOffer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.DiscountOffer
	for _, offer := range r.store.offers {
		if matchOffer(offer, specs) {
			cp := *offer
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *discountOfferRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	offer, ok := r.store.offers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	offer.IsExpired = true
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *discountOfferRepository) MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	offer, ok := r.store.offers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	offer.AcceptedAt = &at
	offer.UpdatedAt = time.Now()
	return nil
}

func (r *discountOfferRepository) ExpireAllBefore(ctx context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stale := []specification.Specification{specification.ExpiredBefore{Now: now}}
	var touched int64
	for _, offer := range r.store.offers {
		if matchOffer(offer, stale) {
			offer.IsExpired = true
			offer.UpdatedAt = time.Now()
			touched++
		}
	}
	return touched, nil
}

func matchOffer(offer *entity.DiscountOffer, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if offer.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if offer.UserId != s.UserID {
				return false
			}
		case specification.BySubscription:
			if offer.SubscriptionId != s.SubscriptionID {
				return false
			}
		case specification.ExpiredBefore:
			if offer.IsExpired || !offer.ExpiresAt.Before(s.Now) {
				return false
			}
		default:
			panic(unsupportedSpec(spec))
		}
	}
	return true
}
