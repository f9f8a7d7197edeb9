package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/dto"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/serverutils"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/service"
)

type IBillingController interface {
	RegisterRoutes(r fiber.Router)
	GetStatus(ctx *fiber.Ctx) error
	CancelSubscription(ctx *fiber.Ctx) error
	RejectOffer(ctx *fiber.Ctx) error
	GetActiveOffer(ctx *fiber.Ctx) error
	AcceptOffer(ctx *fiber.Ctx) error
}

type billingController struct {
	billingService service.IBillingService
	offerService   service.IDiscountOfferService
}

func NewBillingController(billingService service.IBillingService, offerService service.IDiscountOfferService) IBillingController {
	return &billingController{
		billingService: billingService,
		offerService:   offerService,
	}
}

func (c *billingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/billing", serverutils.JwtMiddleware)
	h.Get("/status", c.GetStatus)
	h.Post("/cancel", c.CancelSubscription)
	h.Post("/offers/reject", c.RejectOffer)
	h.Get("/offers/active", c.GetActiveOffer)
	h.Post("/offers/accept", c.AcceptOffer)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
	}
	return userId, nil
}

func (c *billingController) GetStatus(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.billingService.GetSubscriptionStatus(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *billingController) CancelSubscription(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.billingService.CancelSubscription(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancellation scheduled", res))
}

func (c *billingController) RejectOffer(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.RejectOfferRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	offer, err := c.offerService.StoreRejectedOffer(ctx.Context(), userId, req.AmountCents)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Retention offer created", toOfferResponse(offer)))
}

func (c *billingController) GetActiveOffer(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	offer, err := c.offerService.GetActiveOffer(ctx.Context(), userId)
	if err != nil {
		return err
	}
	if offer == nil {
		return ctx.JSON(serverutils.SuccessResponse("No active offer", nil))
	}
	return ctx.JSON(serverutils.SuccessResponse("Active offer", toOfferResponse(offer)))
}

func (c *billingController) AcceptOffer(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	offer, err := c.offerService.AcceptOffer(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Offer accepted", toOfferResponse(offer)))
}

func toOfferResponse(offer *entity.DiscountOffer) *dto.DiscountOfferResponse {
	return &dto.DiscountOfferResponse{
		Id:              offer.Id,
		OfferPriceCents: offer.OfferPriceCents,
		DiscountPercent: offer.DiscountPercent,
		SavingsCents:    offer.SavingsCents,
		ExpiresAt:       offer.ExpiresAt,
		AcceptedAt:      offer.AcceptedAt,
	}
}
