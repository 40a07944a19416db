package main

import (
	"context"
	"time"

	"bokclean/internal/credits/handler"
	"bokclean/internal/credits/repository"
	"bokclean/internal/credits/service"
	"bokclean/internal/notifications"
	"bokclean/pkg/app"
	"bokclean/pkg/client"
	"bokclean/pkg/config"
	"bokclean/pkg/kafka"
	kafka_config "bokclean/pkg/kafka/config"
)

const ServiceName = "credits"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Credits service")
	creditService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCreditHandler(creditService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CreditService {
	creditRepo := repository.NewMongoCreditRepository(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := creditRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to ensure credit indexes", "error", err)
	}

	gateway := client.NewPaystackClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	creditService := service.NewCreditService(creditRepo, gateway, initPublisher(cfg), cfg)

	cfg.Log.Info("Credit service initialized", "database", cfg.MongoDatabaseName)
	return creditService
}

// initPublisher wires the event producer. The service runs without
// events when the broker is unreachable at startup.
func initPublisher(cfg *config.Config) service.EventPublisher {
	producer, err := kafka.NewProducer(kafka_config.Load(),
		notifications.TopicBookingEvents, notifications.TopicBookingDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Error("Failed to initialize event producer, continuing without events", "error", err)
		return nil
	}
	return notifications.NewPublisher(producer)
}
