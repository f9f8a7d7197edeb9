package bootstrap

import (
	"log"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/config"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/controller"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/logger"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/mailer"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/unitofwork"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/service"
	pktNats "github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/nats"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/stripeclient"
)

// webhookDedupTTL bounds how long a processed Stripe event id is remembered.
// Stripe retries cluster within hours of the original delivery.
const webhookDedupTTL = 24 * time.Hour

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	BillingController controller.IBillingController

	// Background services (exposed for cmd/sweep)
	AccessService        service.IAccessService
	DiscountOfferService service.IDiscountOfferService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	stripeGateway := stripeclient.NewGateway(cfg.Stripe.APIKey, sysLogger.Raw())

	seenEvents := cache.New(webhookDedupTTL, webhookDedupTTL)

	// 3. Services
	accessService := service.NewAccessService(uowFactory, natsPub, sysLogger)
	syncService := service.NewSubscriptionSyncService(
		uowFactory,
		stripeGateway,
		accessService,
		emailService,
		natsPub,
		sysLogger,
	)
	billingService := service.NewBillingService(
		uowFactory,
		stripeGateway,
		syncService,
		emailService,
		sysLogger,
	)
	offerService := service.NewDiscountOfferService(uowFactory, natsPub, sysLogger)

	// 4. Controllers
	return &Container{
		WebhookController: controller.NewWebhookController(
			syncService,
			cfg.Stripe.WebhookSecret,
			seenEvents,
			sysLogger,
		),
		BillingController: controller.NewBillingController(billingService, offerService),

		AccessService:        accessService,
		DiscountOfferService: offerService,

		Logger: sysLogger,
	}
}
