package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/logger"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/unitofwork"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/events"
	pktNats "github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/nats"
)

// OfferDetails is the computed shape of a retention offer before it is
// persisted or shown.
type OfferDetails struct {
	DiscountPercent int
	OfferPriceCents int64
	SavingsCents    int64
}

type IDiscountOfferService interface {
	// CalculateOfferDetails prices a counter-offer off the amount the user
	// said they would pay. The result never goes below the price floor; the
	// reported percentage always describes the final clipped price.
	CalculateOfferDetails(userInputCents int64) (*OfferDetails, error)

	// StoreRejectedOffer records the offer made when the user walked away
	// from checkout. A fresh offer supersedes an unaccepted prior one for the
	// same subscription; an accepted offer blocks new ones for good.
	StoreRejectedOffer(ctx context.Context, userId uuid.UUID, userInputCents int64) (*entity.DiscountOffer, error)

	// GetActiveOffer returns the live offer for a user, or nil. Reading a
	// lapsed offer flags it expired as a side effect.
	GetActiveOffer(ctx context.Context, userId uuid.UUID) (*entity.DiscountOffer, error)

	// AcceptOffer marks the user's pending offer accepted. Expired or
	// already-accepted offers are rejected against the current clock even if
	// the stored flag is stale.
	AcceptOffer(ctx context.Context, userId uuid.UUID) (*entity.DiscountOffer, error)

	// ExpireStaleOffers flags every lapsed offer in one pass.
	ExpireStaleOffers(ctx context.Context) (int64, error)
}

type discountOfferService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  *pktNats.Publisher
	log        logger.ILogger
	now        func() time.Time
	percent    func() int
}

func NewDiscountOfferService(uowFactory unitofwork.RepositoryFactory, publisher *pktNats.Publisher, log logger.ILogger) IDiscountOfferService {
	return &discountOfferService{
		uowFactory: uowFactory,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
		percent: func() int {
			return rand.Intn(entity.MaxDiscountPercent-entity.MinDiscountPercent+1) + entity.MinDiscountPercent
		},
	}
}

func (s *discountOfferService) CalculateOfferDetails(userInputCents int64) (*OfferDetails, error) {
	if userInputCents <= 0 {
		return nil, NewValidationError("amount", "must be a positive amount in cents")
	}

	// At or below the floor there is no room to discount; the floor itself
	// is the offer.
	if userInputCents <= entity.MinOfferPriceCents {
		return &OfferDetails{
			DiscountPercent: 0,
			OfferPriceCents: entity.MinOfferPriceCents,
			SavingsCents:    0,
		}, nil
	}

	percent := s.percent()
	offer := userInputCents - (userInputCents * int64(percent) / 100)
	if offer < entity.MinOfferPriceCents {
		offer = entity.MinOfferPriceCents
	}

	savings := userInputCents - offer
	// Recompute the percentage from the clipped price so the number shown
	// matches the money saved.
	effective := int(math.Round(float64(savings) * 100 / float64(userInputCents)))

	return &OfferDetails{
		DiscountPercent: effective,
		OfferPriceCents: offer,
		SavingsCents:    savings,
	}, nil
}

func (s *discountOfferService) StoreRejectedOffer(ctx context.Context, userId uuid.UUID, userInputCents int64) (*entity.DiscountOffer, error) {
	details, err := s.CalculateOfferDetails(userInputCents)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, NewValidationError("subscription", "no subscription on record for this user")
	}

	now := s.now()

	existing, err := uow.DiscountOfferRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.BySubscription{SubscriptionID: sub.Id},
	)
	if err != nil {
		return nil, err
	}
	// An accepted offer is immutable, even after its window lapses; the
	// upsert would silently clear accepted_at otherwise.
	if existing != nil && existing.AcceptedAt != nil {
		return nil, NewValidationError("offer", "an accepted offer is already on record")
	}

	offer := &entity.DiscountOffer{
		Id:                 uuid.New(),
		UserId:             userId,
		SubscriptionId:     sub.Id,
		OriginalPriceCents: userInputCents,
		UserInputCents:     userInputCents,
		OfferPriceCents:    details.OfferPriceCents,
		DiscountPercent:    details.DiscountPercent,
		SavingsCents:       details.SavingsCents,
		ExpiresAt:          now.Add(entity.OfferTTL),
		IsExpired:          false,
		AcceptedAt:         nil,
		CreatedAt:          now,
	}

	if err := uow.DiscountOfferRepository().Upsert(ctx, offer); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("discount_offer", "retention offer stored", map[string]interface{}{
		"operation":        "store_offer",
		"user_id":          userId.String(),
		"offer_cents":      offer.OfferPriceCents,
		"discount_percent": offer.DiscountPercent,
		"expires_at":       offer.ExpiresAt,
		"success":          true,
	})

	s.publish(ctx, events.TypeDiscountOfferCreated, map[string]interface{}{
		"user_id":          userId,
		"offer_cents":      offer.OfferPriceCents,
		"discount_percent": offer.DiscountPercent,
		"expires_at":       offer.ExpiresAt,
	})

	return offer, nil
}

func (s *discountOfferService) GetActiveOffer(ctx context.Context, userId uuid.UUID) (*entity.DiscountOffer, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	offer, err := uow.DiscountOfferRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, nil
	}

	if offer.ExpiredAt(s.now()) {
		if !offer.IsExpired {
			if err := uow.DiscountOfferRepository().MarkExpired(ctx, offer.Id); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	return offer, nil
}

func (s *discountOfferService) AcceptOffer(ctx context.Context, userId uuid.UUID) (*entity.DiscountOffer, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	offer, err := uow.DiscountOfferRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, NewValidationError("offer", "no offer on record")
	}
	if offer.AcceptedAt != nil {
		return nil, NewValidationError("offer", "offer already accepted")
	}

	now := s.now()
	if offer.ExpiredAt(now) {
		if !offer.IsExpired {
			if err := uow.DiscountOfferRepository().MarkExpired(ctx, offer.Id); err != nil {
				return nil, err
			}
			if err := uow.Commit(); err != nil {
				return nil, err
			}
		}
		return nil, NewValidationError("offer", "offer has expired")
	}

	if err := uow.DiscountOfferRepository().MarkAccepted(ctx, offer.Id, now); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	offer.AcceptedAt = &now

	s.log.Info("discount_offer", "retention offer accepted", map[string]interface{}{
		"operation":   "accept_offer",
		"user_id":     userId.String(),
		"offer_cents": offer.OfferPriceCents,
		"success":     true,
	})

	s.publish(ctx, events.TypeDiscountOfferAccepted, map[string]interface{}{
		"user_id":     userId,
		"offer_cents": offer.OfferPriceCents,
	})

	return offer, nil
}

func (s *discountOfferService) ExpireStaleOffers(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	expired, err := uow.DiscountOfferRepository().ExpireAllBefore(ctx, s.now())
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		s.log.Info("discount_offer", "stale offers expired", map[string]interface{}{
			"operation": "expire_sweep",
			"expired":   expired,
			"success":   true,
		})
	}
	return expired, nil
}

func (s *discountOfferService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewBillingEvent(eventType, data)); err != nil {
		s.log.Warn("discount_offer", "failed to publish offer event", map[string]interface{}{
			"operation": "publish_event",
			"event":     eventType,
			"success":   false,
			"error":     err.Error(),
		})
	}
}
