package stripeclient

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// Gateway is the read/update surface this service needs from Stripe. It is
// an interface so handlers can be tested against a fake; the real
// implementation wraps one stripe.Client constructed at startup and injected
// everywhere (no package-global client).
type Gateway interface {
	GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
	GetCustomer(ctx context.Context, id string) (*stripe.Customer, error)
	ScheduleCancellation(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
}

type gateway struct {
	sc     *stripe.Client
	logger *zap.Logger
}

func NewGateway(apiKey string, logger *zap.Logger) Gateway {
	return &gateway{
		sc:     stripe.NewClient(apiKey),
		logger: logger,
	}
}

func (g *gateway) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionRetrieveParams{
		Expand: []*string{
			stripe.String("customer"),
			stripe.String("latest_invoice"),
		},
	}
	sub, err := g.sc.V1Subscriptions.Retrieve(ctx, id, params)
	if err != nil {
		g.logger.Error("stripe subscription retrieve failed",
			zap.String("subscription_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("retrieve subscription %s: %w", id, err)
	}
	return sub, nil
}

func (g *gateway) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionRetrieveParams{
		Expand: []*string{
			stripe.String("subscription"),
			stripe.String("customer"),
		},
	}
	sess, err := g.sc.V1CheckoutSessions.Retrieve(ctx, id, params)
	if err != nil {
		g.logger.Error("stripe checkout session retrieve failed",
			zap.String("session_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("retrieve checkout session %s: %w", id, err)
	}
	return sess, nil
}

func (g *gateway) GetCustomer(ctx context.Context, id string) (*stripe.Customer, error) {
	cust, err := g.sc.V1Customers.Retrieve(ctx, id, &stripe.CustomerRetrieveParams{})
	if err != nil {
		g.logger.Error("stripe customer retrieve failed",
			zap.String("customer_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("retrieve customer %s: %w", id, err)
	}
	return cust, nil
}

// ScheduleCancellation flags the subscription to lapse at period end instead
// of renewing. Stripe emits customer.subscription.updated afterwards, which
// flows back through the normal sync path.
func (g *gateway) ScheduleCancellation(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionUpdateParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	sub, err := g.sc.V1Subscriptions.Update(ctx, subscriptionID, params)
	if err != nil {
		g.logger.Error("stripe cancellation schedule failed",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("schedule cancellation for %s: %w", subscriptionID, err)
	}
	return sub, nil
}
