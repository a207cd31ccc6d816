// Package sender содержит приложение воркера рассылки дайджеста.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lab-reserve/internal/config"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/lab-reserve/internal/services/sender"
)

// App приложение воркера рассылки.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает приложение воркера: RabbitMQ и SMTP транспорт. Без
// SMTP-настроек воркер работает в режиме логирования дайджестов.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetDigestQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	var transport smtp.TransportInterface
	if cfg.EmailConfigured() {
		transport = smtp.NewTransport(cfg, logger)
	} else {
		logger.Warn("smtp is not configured, digests will be logged only")
	}
	senderService := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди дайджестов до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.WeeklyDigestQueue, a.senderService.SendWeeklyDigest)
	if err != nil {
		a.logger.Error("failed to start digest queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
