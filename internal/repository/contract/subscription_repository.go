package contract

import (
	"context"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type SubscriptionRepository interface {
	// Upsert writes the record keyed on StripeSubscriptionId. On conflict
	// every field is overwritten with the incoming values (full replace);
	// callers are expected to supply freshly fetched authoritative data.
	Upsert(ctx context.Context, sub *entity.Subscription) error

	// UpdateStatusAndInvoice is the narrow partial-write exception for
	// payment-failure events, which carry no full subscription payload.
	UpdateStatusAndInvoice(ctx context.Context, stripeSubscriptionId string, status entity.SubscriptionStatus, invoiceId *string) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
	Count(ctx context.Context) (int64, error)
}
