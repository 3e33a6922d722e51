// Package notifier assembles the expired-job mail consumer.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/devhire/job-board/internal/config"
	"github.com/devhire/job-board/internal/lib/smtp"
	"github.com/devhire/job-board/internal/rabbitmq"
	notifierservice "github.com/devhire/job-board/internal/services/notifier"
)

type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifierService *notifierservice.NotifierService
	logger          *slog.Logger
}

// New connects to the broker and wires the mail transport.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetExpiryQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	notifierService := notifierservice.NewNotifierService(transport, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		notifierService: notifierService,
		logger:          logger,
	}, nil
}

// Run consumes expired-job events until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "jobs.expired", a.notifierService.SendExpiredJobNotice)
	if err != nil {
		a.logger.Error("failed to start jobs.expired consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
