// Package scheduler содержит приложение планировщика еженедельного дайджеста.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lab-reserve/internal/config"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	digestservice "github.com/magabrotheeeer/lab-reserve/internal/services/digest"
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

// App приложение планировщика дайджеста.
type App struct {
	digestService *digestservice.Service
	db            *storage.Storage
	conn          *amqp.Connection
	ch            *amqp.Channel
	logger        *slog.Logger
	interval      time.Duration
}

func waitForDB(db *storage.Storage) error {
	for range 10 {
		err := storage.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает приложение планировщика: RabbitMQ, хранилище, сервис дайджеста.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetDigestQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	publisher := rabbitmq.NewPublisher(ch, rabbitmq.ExchangeName, rabbitmq.WeeklyDigestKey)
	digestService := digestservice.New(db, publisher, logger, cfg.ExpiringWithin)

	return &App{
		digestService: digestService,
		db:            db,
		conn:          conn,
		ch:            ch,
		logger:        logger,
		interval:      cfg.DigestInterval,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run выполняет прогон дайджеста сразу при старте и затем по тикеру,
// пока контекст не отменен.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			a.runOnce(ctx)
		case <-ctx.Done():
			a.logger.Info("shutting down digest scheduler")
			if err := a.ch.Close(); err != nil {
				a.logger.Error("failed to close channel", slog.Any("err", err))
			}
			if err := a.conn.Close(); err != nil {
				a.logger.Error("failed to close connection", slog.Any("err", err))
			}
			return nil
		}
	}
}

func (a *App) runOnce(ctx context.Context) {
	a.cleanupSessions(ctx)

	result, err := a.digestService.Run(ctx)
	if err != nil {
		a.logger.Error("digest run failed", sl.Err(err))
		return
	}
	a.logger.Info("digest run finished",
		slog.Int("published", result.Published),
		slog.Int("errors", result.Errors),
		slog.Int("renewals_marked", result.Renewals))
}

func (a *App) cleanupSessions(ctx context.Context) {
	deleted, err := a.db.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		a.logger.Error("session cleanup failed", sl.Err(err))
		return
	}
	if deleted > 0 {
		a.logger.Info("expired sessions deleted", slog.Int("count", deleted))
	}
}
