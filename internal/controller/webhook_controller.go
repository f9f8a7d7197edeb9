package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/logger"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/service"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/stripeclient"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleStripeWebhook(ctx *fiber.Ctx) error
}

type webhookController struct {
	syncService   service.ISubscriptionSyncService
	signingSecret string
	seenEvents    *cache.Cache
	log           logger.ILogger
}

func NewWebhookController(syncService service.ISubscriptionSyncService, signingSecret string, seenEvents *cache.Cache, log logger.ILogger) IWebhookController {
	return &webhookController{
		syncService:   syncService,
		signingSecret: signingSecret,
		seenEvents:    seenEvents,
		log:           log,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/webhooks/stripe", c.HandleStripeWebhook)
}

// HandleStripeWebhook verifies the signature, dedups redelivered event ids
// best-effort, and dispatches by event type. Unhandled types are acknowledged
// so Stripe does not redeliver them. Handler errors propagate as non-2xx so
// failed events are redelivered.
func (c *webhookController) HandleStripeWebhook(ctx *fiber.Ctx) error {
	payload := ctx.Body()
	signature := ctx.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signature, c.signingSecret)
	if err != nil {
		c.log.Warn("webhook", "signature verification failed", map[string]interface{}{
			"operation": "verify_signature",
			"success":   false,
			"error":     err.Error(),
		})
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	// The cache only saves redundant work on quick redeliveries; the upserts
	// themselves are what make reprocessing safe.
	if _, seen := c.seenEvents.Get(event.ID); seen {
		return ctx.SendStatus(fiber.StatusOK)
	}

	if err := c.dispatch(ctx, event); err != nil {
		c.log.Error("webhook", "event handling failed", map[string]interface{}{
			"operation":  "dispatch",
			"event_id":   event.ID,
			"event_type": string(event.Type),
			"success":    false,
			"error":      err.Error(),
		})
		return err
	}

	c.seenEvents.Set(event.ID, struct{}{}, cache.DefaultExpiration)
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *webhookController) dispatch(ctx *fiber.Ctx, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed checkout session payload")
		}
		return c.syncService.HandleCheckoutCompleted(ctx.Context(), sess.ID)

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed subscription payload")
		}
		return c.syncService.HandleSubscriptionUpdated(ctx.Context(), sub.ID)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed subscription payload")
		}
		return c.syncService.HandleSubscriptionCancellation(ctx.Context(), &sub)

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed invoice payload")
		}
		return c.syncService.HandlePaymentFailure(ctx.Context(),
			stripeclient.InvoiceSubscriptionID(&inv), inv.ID, inv.AttemptCount)

	case "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed invoice payload")
		}
		return c.syncService.HandlePaymentSucceeded(ctx.Context(), &inv)

	default:
		c.log.Debug("webhook", "ignoring unhandled event type", map[string]interface{}{
			"operation":  "dispatch",
			"event_id":   event.ID,
			"event_type": string(event.Type),
		})
		return nil
	}
}
