package stripeclient

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
)

// ExtractedSubscriptionData is the flattened view of a Stripe subscription
// that the sync layer persists. Building it here keeps the rest of the code
// off raw SDK object shapes.
type ExtractedSubscriptionData struct {
	StripeSubscriptionId string
	StripeCustomerId     string
	Status               string
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool
	CanceledAt           *time.Time
	EndedAt              *time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
	LatestInvoiceId      *string
	CreatedAt            time.Time
	CustomerEmail        string
}

// ExtractSubscriptionData flattens a Stripe subscription. The billing period
// lives on the subscription item, not the subscription itself.
func ExtractSubscriptionData(sub *stripe.Subscription) (*ExtractedSubscriptionData, error) {
	if sub == nil {
		return nil, fmt.Errorf("nil subscription")
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return nil, fmt.Errorf("subscription %s has no customer", sub.ID)
	}

	data := &ExtractedSubscriptionData{
		StripeSubscriptionId: sub.ID,
		StripeCustomerId:     sub.Customer.ID,
		Status:               string(sub.Status),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		CanceledAt:           unixPtr(sub.CanceledAt),
		EndedAt:              unixPtr(sub.EndedAt),
		TrialStart:           unixPtr(sub.TrialStart),
		TrialEnd:             unixPtr(sub.TrialEnd),
		CreatedAt:            time.Unix(sub.Created, 0).UTC(),
		CustomerEmail:        sub.Customer.Email,
	}

	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		data.CurrentPeriodStart = unixPtr(item.CurrentPeriodStart)
		data.CurrentPeriodEnd = unixPtr(item.CurrentPeriodEnd)
	}

	if sub.LatestInvoice != nil && sub.LatestInvoice.ID != "" {
		id := sub.LatestInvoice.ID
		data.LatestInvoiceId = &id
	}

	return data, nil
}

// InvoiceSubscriptionID digs the owning subscription id out of an invoice.
// Returns "" for one-off invoices with no subscription parent.
func InvoiceSubscriptionID(inv *stripe.Invoice) string {
	if inv == nil || inv.Parent == nil || inv.Parent.SubscriptionDetails == nil {
		return ""
	}
	if inv.Parent.SubscriptionDetails.Subscription == nil {
		return ""
	}
	return inv.Parent.SubscriptionDetails.Subscription.ID
}

func unixPtr(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0).UTC()
	return &t
}
