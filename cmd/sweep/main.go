// Command sweep runs the scheduled reconciliation pass: it revokes premium
// access for past_due subscriptions whose grace window lapsed without a
// follow-up webhook, and flags stale discount offers. Intended to run from
// cron.
package main

import (
	"context"
	"log"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/bootstrap"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/config"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/database"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	ctx := context.Background()

	reconciled, err := container.AccessService.ReconcileLapsedGracePeriods(ctx)
	if err != nil {
		log.Fatalf("Error: grace period sweep failed: %v", err)
	}
	log.Printf("Grace period sweep: %d subscriptions reconciled", reconciled)

	expired, err := container.DiscountOfferService.ExpireStaleOffers(ctx)
	if err != nil {
		log.Fatalf("Error: offer expiry sweep failed: %v", err)
	}
	log.Printf("Offer expiry sweep: %d offers flagged", expired)
}
