// Command notifier consumes billing events off the BILLING stream and writes
// them to the structured audit log. It is the in-process end of the
// notification pipeline: downstream fan-out (push, in-app) hangs off the same
// durable consumer, so events published before a crash are replayed here.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/config"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/logger"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/events"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/nats"
)

func main() {
	cfg := config.Load()
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer appLogger.Sync()

	subscriber, err := nats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Panicf("Unable to connect to NATS: %v", err)
	}
	defer subscriber.Close()

	err = subscriber.Subscribe("billing.>", "billing-notifier", func(ctx context.Context, event events.Event) error {
		appLogger.Info("billing_events", "billing event received", map[string]interface{}{
			"operation":   "consume_event",
			"event":       event.EventType(),
			"occurred_at": event.Timestamp(),
			"success":     true,
		})
		return nil
	})
	if err != nil {
		log.Panicf("Unable to subscribe to billing events: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
