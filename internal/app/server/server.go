// Package server собирает HTTP-приложение бронирования: хранилище,
// миграции, кеш, сервисы и маршруты.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/lab-reserve/internal/cache"
	"github.com/magabrotheeeer/lab-reserve/internal/config"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/jwt"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/smtp"
	"github.com/magabrotheeeer/lab-reserve/internal/migrations"
	authservice "github.com/magabrotheeeer/lab-reserve/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/lab-reserve/internal/services/booking"
	digestservice "github.com/magabrotheeeer/lab-reserve/internal/services/digest"
	senderservice "github.com/magabrotheeeer/lab-reserve/internal/services/sender"
	serverservice "github.com/magabrotheeeer/lab-reserve/internal/services/server"
	userservice "github.com/magabrotheeeer/lab-reserve/internal/services/user"
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

// App HTTP-приложение сервиса бронирования.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает PostgreSQL, прогоняет миграции,
// подключает Redis и RabbitMQ, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetDigestQueues())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(ch, rabbitmq.ExchangeName, rabbitmq.WeeklyDigestKey)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authSvc := authservice.NewAuthService(db, jwtMaker)
	bookingSvc := bookingservice.New(db, cacheRedis, logger)
	serverSvc := serverservice.New(db, cacheRedis, logger)
	userSvc := userservice.New(db, logger)
	digestSvc := digestservice.New(db, publisher, logger, cfg.ExpiringWithin)

	var transport smtp.TransportInterface
	if cfg.EmailConfigured() {
		transport = smtp.NewTransport(cfg, logger)
	}
	senderSvc := senderservice.NewSenderService(transport, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authSvc, bookingSvc, serverSvc, userSvc, digestSvc, senderSvc)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		a.db.DB.Close()
		return err
	}
}
