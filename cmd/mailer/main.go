package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/configs"
	"github.com/chatly/user-service/internal/application/services"
	"github.com/chatly/user-service/internal/infrastructure/email"
	"github.com/chatly/user-service/internal/infrastructure/rabbitmq"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting mail service...")

	queueConn, err := rabbitmq.Connect(&cfg.RabbitMQ, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer queueConn.Close()

	logger.Info("Connected to RabbitMQ successfully")

	sender := email.NewSendGridSender(&cfg.Email, logger)
	consumer := rabbitmq.NewConsumer(queueConn, logger)
	mailConsumer := services.NewMailConsumerService(consumer, sender, services.MailConsumerConfig{
		Queue: cfg.OTP.EmailQueueName,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the consumer loop on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("Shutting down mail service...")
		cancel()
	}()

	if err := mailConsumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Mail consumer stopped:", err)
	}

	logger.Info("Mail service exited")
}
