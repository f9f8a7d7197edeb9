package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/logger"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/mailer"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/unitofwork"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/events"
	pktNats "github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/nats"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/stripeclient"
)

// unpaidAttemptThreshold is the failed-payment attempt count at which the
// subscription is marked unpaid instead of past_due.
const unpaidAttemptThreshold = 3

type ISubscriptionSyncService interface {
	// HandleCheckoutCompleted processes checkout.session.completed. The
	// session payload is treated as a pointer only; the subscription itself
	// is re-fetched from Stripe before anything is written.
	HandleCheckoutCompleted(ctx context.Context, sessionID string) error

	// HandleSubscriptionUpdated processes customer.subscription.created and
	// customer.subscription.updated by re-syncing from Stripe.
	HandleSubscriptionUpdated(ctx context.Context, subscriptionID string) error

	// HandleSubscriptionCancellation processes customer.subscription.deleted.
	// The record is kept with status canceled, never deleted.
	HandleSubscriptionCancellation(ctx context.Context, sub *stripe.Subscription) error

	// HandlePaymentFailure processes invoice.payment_failed. This is the one
	// path that writes status without a full re-sync, because the event
	// carries no subscription payload; only the status and the failed
	// invoice id are written.
	HandlePaymentFailure(ctx context.Context, subscriptionID string, invoiceID string, attemptCount int64) error

	// HandlePaymentSucceeded processes invoice.payment_succeeded, recovering
	// a past_due subscription back to active.
	HandlePaymentSucceeded(ctx context.Context, inv *stripe.Invoice) error

	// UpdateUserAccess re-syncs whatever subscription Stripe currently holds
	// for a customer and reconciles roles from the result.
	UpdateUserAccess(ctx context.Context, stripeCustomerID string) error
}

type subscriptionSyncService struct {
	uowFactory    unitofwork.RepositoryFactory
	gateway       stripeclient.Gateway
	accessService IAccessService
	emailService  mailer.IEmailService
	publisher     *pktNats.Publisher
	log           logger.ILogger
	now           func() time.Time
}

func NewSubscriptionSyncService(
	uowFactory unitofwork.RepositoryFactory,
	gateway stripeclient.Gateway,
	accessService IAccessService,
	emailService mailer.IEmailService,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) ISubscriptionSyncService {
	return &subscriptionSyncService{
		uowFactory:    uowFactory,
		gateway:       gateway,
		accessService: accessService,
		emailService:  emailService,
		publisher:     publisher,
		log:           log,
		now:           time.Now,
	}
}

func (s *subscriptionSyncService) HandleCheckoutCompleted(ctx context.Context, sessionID string) error {
	sess, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Subscription == nil || sess.Subscription.ID == "" {
		// One-time payment sessions carry no subscription; nothing to sync.
		s.log.Info("billing_sync", "checkout session has no subscription, skipping", map[string]interface{}{
			"operation":  "checkout_completed",
			"session_id": maskID(sessionID),
			"success":    true,
		})
		return nil
	}
	return s.syncFromStripe(ctx, sess.Subscription.ID, "checkout_completed")
}

func (s *subscriptionSyncService) HandleSubscriptionUpdated(ctx context.Context, subscriptionID string) error {
	return s.syncFromStripe(ctx, subscriptionID, "subscription_updated")
}

// syncFromStripe is the common ingestion path: re-fetch the authoritative
// subscription, flatten it, write it, reconcile roles, all in one
// transaction. Running the same event twice converges on the same row.
func (s *subscriptionSyncService) syncFromStripe(ctx context.Context, subscriptionID, operation string) error {
	stripeSub, err := s.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return NewReconciliationError(operation, maskID(subscriptionID), err)
	}

	data, err := stripeclient.ExtractSubscriptionData(stripeSub)
	if err != nil {
		return NewValidationError("subscription", err.Error())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	userId, err := s.resolveUser(ctx, uow, data)
	if err != nil {
		return err
	}

	record := &entity.Subscription{
		UserId:               userId,
		StripeSubscriptionId: data.StripeSubscriptionId,
		StripeCustomerId:     data.StripeCustomerId,
		Status:               entity.MapStripeStatus(data.Status),
		CurrentPeriodStart:   data.CurrentPeriodStart,
		CurrentPeriodEnd:     data.CurrentPeriodEnd,
		CancelAtPeriodEnd:    data.CancelAtPeriodEnd,
		CanceledAt:           data.CanceledAt,
		EndedAt:              data.EndedAt,
		TrialStart:           data.TrialStart,
		TrialEnd:             data.TrialEnd,
		LatestInvoiceId:      data.LatestInvoiceId,
		CreatedAt:            data.CreatedAt,
	}

	if err := uow.SubscriptionRepository().Upsert(ctx, record); err != nil {
		return NewReconciliationError(operation, maskID(data.StripeSubscriptionId), err)
	}

	changed, premium, err := s.accessService.ReconcileWithinTx(ctx, uow, userId)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("billing_sync", "subscription synced", map[string]interface{}{
		"operation":       operation,
		"user_id":         userId.String(),
		"subscription_id": maskID(data.StripeSubscriptionId),
		"status":          string(record.Status),
		"premium":         premium,
		"role_changed":    changed,
		"success":         true,
	})

	if changed {
		eventType := events.TypePremiumRevoked
		if premium {
			eventType = events.TypeSubscriptionActivated
		}
		s.publish(ctx, eventType, map[string]interface{}{
			"user_id":         userId,
			"subscription_id": record.StripeSubscriptionId,
			"status":          string(record.Status),
		})
	}
	return nil
}

func (s *subscriptionSyncService) HandleSubscriptionCancellation(ctx context.Context, stripeSub *stripe.Subscription) error {
	if stripeSub == nil || stripeSub.ID == "" {
		return NewValidationError("subscription", "cancellation event has no subscription")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	existing, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByStripeSubscriptionID{StripeSubscriptionID: stripeSub.ID})
	if err != nil {
		return err
	}
	if existing == nil {
		// Cancellation for a subscription we never recorded: nothing local
		// to revoke, log and move on so Stripe stops redelivering.
		s.log.Warn("billing_sync", "cancellation for unknown subscription", map[string]interface{}{
			"operation":       "subscription_canceled",
			"subscription_id": maskID(stripeSub.ID),
			"success":         true,
		})
		return uow.Commit()
	}

	now := s.now()
	existing.Status = entity.SubscriptionStatusCanceled
	existing.CancelAtPeriodEnd = false
	if t := unixTime(stripeSub.CanceledAt); t != nil {
		existing.CanceledAt = t
	} else if existing.CanceledAt == nil {
		existing.CanceledAt = &now
	}
	if t := unixTime(stripeSub.EndedAt); t != nil {
		existing.EndedAt = t
	} else if existing.EndedAt == nil {
		existing.EndedAt = &now
	}

	if err := uow.SubscriptionRepository().Upsert(ctx, existing); err != nil {
		return NewReconciliationError("subscription_canceled", maskID(stripeSub.ID), err)
	}

	if _, _, err := s.accessService.ReconcileWithinTx(ctx, uow, existing.UserId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("billing_sync", "subscription canceled", map[string]interface{}{
		"operation":       "subscription_canceled",
		"user_id":         existing.UserId.String(),
		"subscription_id": maskID(stripeSub.ID),
		"success":         true,
	})

	s.publish(ctx, events.TypeSubscriptionCanceled, map[string]interface{}{
		"user_id":         existing.UserId,
		"subscription_id": existing.StripeSubscriptionId,
	})
	return nil
}

func (s *subscriptionSyncService) HandlePaymentFailure(ctx context.Context, subscriptionID, invoiceID string, attemptCount int64) error {
	if subscriptionID == "" {
		// One-off invoice failure, no subscription involved.
		return nil
	}

	status := entity.SubscriptionStatusPastDue
	if attemptCount >= unpaidAttemptThreshold {
		status = entity.SubscriptionStatusUnpaid
	}

	var latestInvoice *string
	if invoiceID != "" {
		latestInvoice = &invoiceID
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().UpdateStatusAndInvoice(ctx, subscriptionID, status, latestInvoice); err != nil {
		return NewReconciliationError("payment_failed", maskID(subscriptionID), err)
	}

	existing, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByStripeSubscriptionID{StripeSubscriptionID: subscriptionID})
	if err != nil {
		return err
	}
	if existing == nil {
		return NewReconciliationError("payment_failed", maskID(subscriptionID), nil)
	}

	// past_due keeps premium inside the grace window, so this usually flips
	// nothing; unpaid revokes immediately.
	if _, _, err := s.accessService.ReconcileWithinTx(ctx, uow, existing.UserId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Warn("billing_sync", "payment failed", map[string]interface{}{
		"operation":       "payment_failed",
		"user_id":         existing.UserId.String(),
		"subscription_id": maskID(subscriptionID),
		"invoice_id":      maskID(invoiceID),
		"attempt_count":   attemptCount,
		"status":          string(status),
		"success":         true,
	})

	s.publish(ctx, events.TypePaymentFailed, map[string]interface{}{
		"user_id":         existing.UserId,
		"subscription_id": existing.StripeSubscriptionId,
		"attempt_count":   attemptCount,
		"status":          string(status),
	})

	s.notifyPaymentFailure(ctx, existing.UserId, attemptCount)
	return nil
}

func (s *subscriptionSyncService) HandlePaymentSucceeded(ctx context.Context, inv *stripe.Invoice) error {
	subscriptionID := stripeclient.InvoiceSubscriptionID(inv)
	if subscriptionID == "" {
		return nil
	}

	// A successful payment means the subscription is current again. The full
	// re-sync picks up the new billing period and the paid invoice id, and
	// restores premium access a past_due state may have left revoked.
	return s.syncFromStripe(ctx, subscriptionID, "payment_succeeded")
}

func (s *subscriptionSyncService) UpdateUserAccess(ctx context.Context, stripeCustomerID string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByStripeCustomerID{StripeCustomerID: stripeCustomerID})
	if err != nil {
		return err
	}
	if existing == nil {
		return NewReconciliationError("update_user_access", maskID(stripeCustomerID), nil)
	}
	return s.syncFromStripe(ctx, existing.StripeSubscriptionId, "update_user_access")
}

// resolveUser maps a Stripe customer to a local user: existing subscription
// row first, then stored customer id, finally the customer's email from
// Stripe. The stored customer id is backfilled when the match came through
// email.
func (s *subscriptionSyncService) resolveUser(ctx context.Context, uow unitofwork.UnitOfWork, data *stripeclient.ExtractedSubscriptionData) (uuid.UUID, error) {
	existing, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByStripeSubscriptionID{StripeSubscriptionID: data.StripeSubscriptionId})
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.UserId, nil
	}

	user, err := uow.UserRepository().FindByStripeCustomerId(ctx, data.StripeCustomerId)
	if err != nil {
		return uuid.Nil, err
	}
	if user != nil {
		return user.Id, nil
	}

	email := data.CustomerEmail
	if email == "" {
		cust, err := s.gateway.GetCustomer(ctx, data.StripeCustomerId)
		if err != nil {
			return uuid.Nil, NewReconciliationError("resolve_user", maskID(data.StripeCustomerId), err)
		}
		email = cust.Email
	}
	if email == "" {
		return uuid.Nil, NewReconciliationError("resolve_user", maskID(data.StripeCustomerId), nil)
	}

	user, err = uow.UserRepository().FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}
	if user == nil {
		return uuid.Nil, NewReconciliationError("resolve_user", maskID(data.StripeCustomerId), nil)
	}

	if user.StripeCustomerId == nil || *user.StripeCustomerId != data.StripeCustomerId {
		customerId := data.StripeCustomerId
		user.StripeCustomerId = &customerId
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return uuid.Nil, err
		}
	}
	return user.Id, nil
}

func (s *subscriptionSyncService) notifyPaymentFailure(ctx context.Context, userId uuid.UUID, attemptCount int64) {
	if s.emailService == nil {
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil || user.Email == "" {
		return
	}
	if err := s.emailService.SendPaymentFailureNotice(user.Email, attemptCount); err != nil {
		s.log.Warn("billing_sync", "failed to send payment failure notice", map[string]interface{}{
			"operation": "payment_failed",
			"user_id":   userId.String(),
			"success":   false,
			"error":     err.Error(),
		})
	}
}

func (s *subscriptionSyncService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewBillingEvent(eventType, data)); err != nil {
		s.log.Warn("billing_sync", "failed to publish billing event", map[string]interface{}{
			"operation": "publish_event",
			"event":     eventType,
			"success":   false,
			"error":     err.Error(),
		})
	}
}

func unixTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
