package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/dto"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/logger"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/mailer"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/unitofwork"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/stripeclient"
)

type IBillingService interface {
	// GetSubscriptionStatus is the settings-page readout. A user with no
	// record reads as free.
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)

	// CancelSubscription schedules cancellation at period end via Stripe and
	// refreshes the local record from the response. Access is untouched until
	// the deletion webhook lands.
	CancelSubscription(ctx context.Context, userId uuid.UUID) (*dto.CancelSubscriptionResponse, error)
}

type billingService struct {
	uowFactory   unitofwork.RepositoryFactory
	gateway      stripeclient.Gateway
	syncService  ISubscriptionSyncService
	emailService mailer.IEmailService
	log          logger.ILogger
	now          func() time.Time
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	gateway stripeclient.Gateway,
	syncService ISubscriptionSyncService,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IBillingService {
	return &billingService{
		uowFactory:   uowFactory,
		gateway:      gateway,
		syncService:  syncService,
		emailService: emailService,
		log:          log,
		now:          time.Now,
	}
}

func (s *billingService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.SubscriptionStatusResponse{
			Status:        string(entity.SubscriptionStatusFree),
			PremiumAccess: false,
		}, nil
	}

	now := s.now()
	premium := entity.ShouldGrantPremiumAccess(sub, now)
	return &dto.SubscriptionStatusResponse{
		Status:            string(sub.Status),
		PremiumAccess:     premium,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		InGracePeriod:     sub.Status == entity.SubscriptionStatusPastDue && premium,
	}, nil
}

func (s *billingService) CancelSubscription(ctx context.Context, userId uuid.UUID) (*dto.CancelSubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, NewValidationError("subscription", "no subscription on record for this user")
	}
	if sub.Status == entity.SubscriptionStatusCanceled {
		return nil, NewValidationError("subscription", "subscription is already canceled")
	}

	if _, err := s.gateway.ScheduleCancellation(ctx, sub.StripeSubscriptionId); err != nil {
		return nil, err
	}

	// Stripe emits customer.subscription.updated for the flag change; syncing
	// here just avoids the stale window until that webhook lands.
	if err := s.syncService.HandleSubscriptionUpdated(ctx, sub.StripeSubscriptionId); err != nil {
		return nil, err
	}

	refreshed, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByStripeSubscriptionID{StripeSubscriptionID: sub.StripeSubscriptionId})
	if err != nil {
		return nil, err
	}

	var effective *time.Time
	if refreshed != nil {
		effective = refreshed.CurrentPeriodEnd
	}

	s.log.Info("billing", "cancellation scheduled", map[string]interface{}{
		"operation":       "cancel_subscription",
		"user_id":         userId.String(),
		"subscription_id": maskID(sub.StripeSubscriptionId),
		"success":         true,
	})

	s.sendCancellationEmail(ctx, userId, effective)

	return &dto.CancelSubscriptionResponse{EffectiveDate: effective}, nil
}

func (s *billingService) sendCancellationEmail(ctx context.Context, userId uuid.UUID, effective *time.Time) {
	if s.emailService == nil || effective == nil {
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil || user.Email == "" {
		return
	}
	if err := s.emailService.SendCancellationConfirmation(user.Email, *effective); err != nil {
		s.log.Warn("billing", "failed to send cancellation confirmation", map[string]interface{}{
			"operation": "cancel_subscription",
			"user_id":   userId.String(),
			"success":   false,
			"error":     err.Error(),
		})
	}
}
