package main

import (
	"context"
	"lostfound/internal/pkg/config"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/mqtt"
	"lostfound/internal/pkg/rabbitmq"
	"lostfound/internal/service/notification"
	"lostfound/internal/service/worker"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup()
	defer logger.Sync()

	if cfg.RabbitMQ == nil {
		logger.Error.Fatal("RABBITMQ_HOST is required to run the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rb, err := rabbitmq.NewConnectionManager(ctx, cfg.RabbitMQ)
	if err != nil {
		logger.Error.Fatalf("Failed to connect to rabbitmq: %v", err)
	}
	defer rb.Close()

	var deliverer notification.INotifier = notification.Log{}
	if cfg.SMTP.Host != "" {
		deliverer = notification.NewMailer(notification.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	var opts []worker.Option
	if cfg.MQTT != nil {
		mqttCfg := *cfg.MQTT
		mqttCfg.ClientID += "-worker"
		client, err := mqtt.Setup(&mqttCfg)
		if err != nil {
			logger.Error.Fatalf("Failed to connect to mqtt: %v", err)
		}
		opts = append(opts, worker.WithItemEvents(client, worker.LogItemEvent))
	}

	s := worker.NewService(ctx, rb, deliverer, opts...)
	if err := s.Start(); err != nil {
		logger.Error.Fatalf("Failed to start worker: %v", err)
	}
	logger.Info.Println("Worker started")

	<-ctx.Done()

	if err := s.Stop(); err != nil {
		logger.Error.Println("Failed to stop worker: ", err)
	}
}
