package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type syncFixture struct {
	env     *testEnv
	gateway *fakeGateway
	access  *accessService
	sync    *subscriptionSyncService
	now     time.Time
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	env := newTestEnv()
	gw := newFakeGateway()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	access := NewAccessService(env.uowFactory, nil, noopLogger{}).(*accessService)
	access.now = func() time.Time { return now }

	sync := NewSubscriptionSyncService(env.uowFactory, gw, access, nil, nil, noopLogger{}).(*subscriptionSyncService)
	sync.now = func() time.Time { return now }

	return &syncFixture{env: env, gateway: gw, access: access, sync: sync, now: now}
}

func (f *syncFixture) findSub(t *testing.T, stripeSubId string) *entity.Subscription {
	t.Helper()
	sub, err := f.env.uow().SubscriptionRepository().FindOne(context.Background(),
		specification.ByStripeSubscriptionID{StripeSubscriptionID: stripeSubId})
	require.NoError(t, err)
	return sub
}

func TestHandleCheckoutCompletedGrantsAccess(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	_, _, premiumRole, member := f.env.seedMembership(user.Id)

	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)
	f.gateway.sessions["cs_1"] = &stripe.CheckoutSession{
		ID:           "cs_1",
		Subscription: f.gateway.subscriptions["sub_1"],
	}

	require.NoError(t, f.sync.HandleCheckoutCompleted(ctx, "cs_1"))

	sub := f.findSub(t, "sub_1")
	require.NotNil(t, sub)
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, user.Id, sub.UserId)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.Equal(t, periodEnd.Unix(), sub.CurrentPeriodEnd.Unix())

	assert.Equal(t, premiumRole.Id, f.env.memberRole(member.Id).Id)
}

func TestHandleCheckoutCompletedWithoutSubscription(t *testing.T) {
	f := newSyncFixture(t)

	// One-time payment session: acknowledged, nothing written.
	f.gateway.sessions["cs_onetime"] = &stripe.CheckoutSession{ID: "cs_onetime"}
	require.NoError(t, f.sync.HandleCheckoutCompleted(context.Background(), "cs_onetime"))

	count, err := f.env.uow().SubscriptionRepository().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandleSubscriptionUpdatedIsIdempotent(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)

	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))

	count, err := f.env.uow().SubscriptionRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "replays must hit the same row")
}

func TestSyncConvergesRegardlessOfEventOrder(t *testing.T) {
	// Stale events cannot regress state because every handler refetches the
	// current object from Stripe before writing.
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)

	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))

	// The subscription moves to past_due upstream; a delayed "updated" event
	// from the active era arrives afterwards.
	f.gateway.subscriptions["sub_1"].Status = "past_due"
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1")) // the stale replay

	sub := f.findSub(t, "sub_1")
	require.NotNil(t, sub)
	assert.Equal(t, entity.SubscriptionStatusPastDue, sub.Status)
}

func TestResolveUserByEmailBackfillsCustomerId(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	// The user signed up before ever touching Stripe: no customer id stored.
	user := f.env.seedUser("fresh@example.com", "")
	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_new", "fresh@example.com", "active", f.now, periodEnd)

	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))

	sub := f.findSub(t, "sub_1")
	require.NotNil(t, sub)
	assert.Equal(t, user.Id, sub.UserId)

	stored, err := f.env.uow().UserRepository().FindByStripeCustomerId(ctx, "cus_new")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.Id, stored.Id)
}

func TestResolveUserFailureIsReconciliationError(t *testing.T) {
	f := newSyncFixture(t)

	// Stripe knows a customer no local account matches.
	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_ghost"] = stripeSubscription("sub_ghost", "cus_ghost", "ghost@example.com", "active", f.now, periodEnd)

	err := f.sync.HandleSubscriptionUpdated(context.Background(), "sub_ghost")
	var rerr *ReconciliationError
	require.ErrorAs(t, err, &rerr)

	count, cerr := f.env.uow().SubscriptionRepository().Count(context.Background())
	require.NoError(t, cerr)
	assert.Zero(t, count, "nothing may be written when the owner is unknown")
}

func TestHandlePaymentFailureFirstAttempt(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	_, _, premiumRole, member := f.env.seedMembership(user.Id)

	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))

	require.NoError(t, f.sync.HandlePaymentFailure(ctx, "sub_1", "in_fail_1", 1))

	sub := f.findSub(t, "sub_1")
	assert.Equal(t, entity.SubscriptionStatusPastDue, sub.Status)
	require.NotNil(t, sub.CurrentPeriodEnd, "partial write must keep the period fields")
	require.NotNil(t, sub.LatestInvoiceId, "the failed invoice must be recorded")
	assert.Equal(t, "in_fail_1", *sub.LatestInvoiceId)

	// Inside the grace window premium access survives the failure.
	assert.Equal(t, premiumRole.Id, f.env.memberRole(member.Id).Id)
}

func TestHandlePaymentFailureThirdAttemptRevokes(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	_, freeRole, _, member := f.env.seedMembership(user.Id)

	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))

	require.NoError(t, f.sync.HandlePaymentFailure(ctx, "sub_1", "in_fail_3", 3))

	sub := f.findSub(t, "sub_1")
	assert.Equal(t, entity.SubscriptionStatusUnpaid, sub.Status)
	require.NotNil(t, sub.LatestInvoiceId)
	assert.Equal(t, "in_fail_3", *sub.LatestInvoiceId)
	assert.Equal(t, freeRole.Id, f.env.memberRole(member.Id).Id)
}

func TestHandlePaymentFailureUnknownSubscription(t *testing.T) {
	f := newSyncFixture(t)

	err := f.sync.HandlePaymentFailure(context.Background(), "sub_unknown", "in_1", 1)
	var rerr *ReconciliationError
	require.ErrorAs(t, err, &rerr)
}

func TestHandlePaymentFailureWithoutSubscriptionIsNoop(t *testing.T) {
	f := newSyncFixture(t)
	require.NoError(t, f.sync.HandlePaymentFailure(context.Background(), "", "in_oneoff", 1))
}

func TestFailureThenRecoveryKeepsPremiumWithoutFlips(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	_, _, premiumRole, member := f.env.seedMembership(user.Id)

	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))
	assert.Equal(t, premiumRole.Id, f.env.memberRole(member.Id).Id)

	// Card declines once; access rides out the grace window.
	require.NoError(t, f.sync.HandlePaymentFailure(ctx, "sub_1", "in_1", 1))
	assert.Equal(t, premiumRole.Id, f.env.memberRole(member.Id).Id)

	// Retry succeeds; Stripe now reports the subscription active again with a
	// fresh invoice.
	f.gateway.subscriptions["sub_1"].Status = "active"
	f.gateway.subscriptions["sub_1"].LatestInvoice = &stripe.Invoice{ID: "in_2"}
	inv := &stripe.Invoice{
		ID: "in_2",
		Parent: &stripe.InvoiceParent{
			SubscriptionDetails: &stripe.InvoiceParentSubscriptionDetails{
				Subscription: &stripe.Subscription{ID: "sub_1"},
			},
		},
	}
	require.NoError(t, f.sync.HandlePaymentSucceeded(ctx, inv))

	sub := f.findSub(t, "sub_1")
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	require.NotNil(t, sub.LatestInvoiceId)
	assert.Equal(t, "in_2", *sub.LatestInvoiceId)

	// The whole episode never demoted the member.
	changed, premium, err := f.access.ReconcileWithinTx(ctx, f.env.uow(), user.Id)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, premium)
}

func TestHandlePaymentSucceededWithoutSubscriptionIsNoop(t *testing.T) {
	f := newSyncFixture(t)
	require.NoError(t, f.sync.HandlePaymentSucceeded(context.Background(), &stripe.Invoice{ID: "in_oneoff"}))
}

func TestHandleSubscriptionCancellation(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	_, freeRole, _, member := f.env.seedMembership(user.Id)

	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))

	canceledAt := f.now.Add(time.Hour)
	payload := &stripe.Subscription{
		ID:         "sub_1",
		CanceledAt: canceledAt.Unix(),
		EndedAt:    canceledAt.Unix(),
	}
	require.NoError(t, f.sync.HandleSubscriptionCancellation(ctx, payload))

	sub := f.findSub(t, "sub_1")
	require.NotNil(t, sub, "the record is kept, not deleted")
	assert.Equal(t, entity.SubscriptionStatusCanceled, sub.Status)
	require.NotNil(t, sub.CanceledAt)
	assert.Equal(t, canceledAt.Unix(), sub.CanceledAt.Unix())

	assert.Equal(t, freeRole.Id, f.env.memberRole(member.Id).Id)
}

func TestHandleSubscriptionCancellationUnknownSubscription(t *testing.T) {
	f := newSyncFixture(t)

	// Acknowledged without error so Stripe stops redelivering.
	payload := &stripe.Subscription{ID: "sub_never_seen"}
	require.NoError(t, f.sync.HandleSubscriptionCancellation(context.Background(), payload))
}

func TestHandleSubscriptionCancellationFillsMissingTimestamps(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))

	// Payload with no timestamps at all: the handler stamps its own clock.
	require.NoError(t, f.sync.HandleSubscriptionCancellation(ctx, &stripe.Subscription{ID: "sub_1"}))

	sub := f.findSub(t, "sub_1")
	require.NotNil(t, sub.CanceledAt)
	assert.Equal(t, f.now.Unix(), sub.CanceledAt.Unix())
	require.NotNil(t, sub.EndedAt)
}

func TestUpdateUserAccess(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	user := f.env.seedUser("trader@example.com", "cus_1")
	_, freeRole, premiumRole, member := f.env.seedMembership(user.Id)

	periodEnd := f.now.Add(30 * 24 * time.Hour)
	f.gateway.subscriptions["sub_1"] = stripeSubscription("sub_1", "cus_1", user.Email, "active", f.now, periodEnd)
	require.NoError(t, f.sync.HandleSubscriptionUpdated(ctx, "sub_1"))
	assert.Equal(t, premiumRole.Id, f.env.memberRole(member.Id).Id)

	// The subscription lapsed upstream; a manual resync picks it up.
	f.gateway.subscriptions["sub_1"].Status = "canceled"
	require.NoError(t, f.sync.UpdateUserAccess(ctx, "cus_1"))
	assert.Equal(t, freeRole.Id, f.env.memberRole(member.Id).Id)

	t.Run("unknown customer", func(t *testing.T) {
		err := f.sync.UpdateUserAccess(ctx, "cus_nobody")
		var rerr *ReconciliationError
		require.ErrorAs(t, err, &rerr)
	})
}
