package main

import (
	"context"
	"time"

	"bokclean/internal/bookings/handler"
	"bokclean/internal/bookings/repository"
	"bokclean/internal/bookings/service"
	"bokclean/internal/bookings/validator"
	creditrepo "bokclean/internal/credits/repository"
	creditsvc "bokclean/internal/credits/service"
	discountrepo "bokclean/internal/discounts/repository"
	discountsvc "bokclean/internal/discounts/service"
	"bokclean/internal/notifications"
	"bokclean/internal/pricing"
	"bokclean/pkg/app"
	"bokclean/pkg/client"
	"bokclean/pkg/config"
	"bokclean/pkg/kafka"
	kafka_config "bokclean/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	cleanerRepo := repository.NewMongoCleanerRepository(cfg)
	discountRepo := discountrepo.NewMongoDiscountRepository(cfg)
	creditRepo := creditrepo.NewMongoCreditRepository(cfg)
	ensureIndexes(cfg, bookingRepo, discountRepo, creditRepo)

	gateway := client.NewPaystackClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	referrals := client.NewReferralClient(cfg.ReferralBaseURL)

	bookingService := service.NewBookingService(
		bookingRepo,
		cleanerRepo,
		validator.NewBookingFormValidator(cfg.Log),
		pricing.NewEngine(nil),
		discountsvc.NewDiscountService(discountRepo, cfg),
		creditsvc.NewCreditService(creditRepo, gateway, nil, cfg),
		gateway,
		referrals,
		initPublisher(cfg),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
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

func ensureIndexes(cfg *config.Config, repos ...interface {
	EnsureIndexes(ctx context.Context) error
}) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil {
			cfg.Log.Fatal("Failed to ensure indexes", "error", err)
		}
	}
}
