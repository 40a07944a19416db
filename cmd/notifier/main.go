package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bokclean/internal/notifications"
	"bokclean/pkg/config"
	"bokclean/pkg/kafka"
	kafka_config "bokclean/pkg/kafka/config"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "bokclean-notifier"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier service")

	worker := notifications.NewWorker(&notifications.LogSender{Log: cfg.Log}, cfg.Log)

	consumer, err := kafka.NewConsumer(kafka_config.Load(),
		notifications.TopicBookingEvents, consumerGroup, notifications.TopicBookingDLQ,
		worker.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	consumerErrors := make(chan error, 1)
	go func() {
		consumerErrors <- consumer.Start(ctx)
	}()

	select {
	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		<-consumerErrors
	case err := <-consumerErrors:
		if err != nil {
			cfg.Log.Error("Consumer stopped with error", "error", err)
		}
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	cfg.Log.Info("Notifier service stopped")
}
