// Package services содержит бизнес-логику инвентаря серверов:
// чтение с вычислением эффективного статуса и административные операции.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

var (
	// ErrServerNotFound сервер не найден.
	ErrServerNotFound = errors.New("server not found")
	// ErrServerHasBookings сервер нельзя удалить, пока есть занимающие бронирования.
	ErrServerHasBookings = errors.New("server has occupying bookings")
	// ErrForbidden у пользователя недостаточно прав на операцию.
	ErrForbidden = errors.New("forbidden")
)

// ServerRepository определяет методы для работы с серверами в хранилище.
type ServerRepository interface {
	CreateServer(ctx context.Context, srv models.Server) (*models.Server, error)
	ReadServer(ctx context.Context, id string) (*models.Server, error)
	UpdateServer(ctx context.Context, srv models.Server) (*models.Server, error)
	// DeleteServer возвращает storage.ErrHasBookings, пока сервер занят.
	DeleteServer(ctx context.Context, id string) error
	ListServers(ctx context.Context) ([]*models.Server, error)
	// ListOccupyingBookings возвращает active и pending_renewal бронирования
	// всех серверов для вычисления статусов.
	ListOccupyingBookings(ctx context.Context) ([]*models.Booking, error)
	// ListBookingsForServer возвращает все бронирования сервера.
	ListBookingsForServer(ctx context.Context, serverID string) ([]*models.Booking, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции над инвентарем серверов.
type Service struct {
	repo  ServerRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый Service.
func New(repo ServerRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// WithClock заменяет источник времени. Используется в тестах.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List возвращает все серверы с вычисленным статусом и текущим бронированием.
func (s *Service) List(ctx context.Context) ([]*models.ServerView, error) {
	const op = "services.server.List"

	var cached []*models.ServerView
	found, err := s.cache.Get("servers:list", &cached)
	if err == nil && found {
		return cached, nil
	}

	servers, err := s.repo.ListServers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	occupying, err := s.repo.ListOccupyingBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookings := make([]models.Booking, len(occupying))
	for i, b := range occupying {
		bookings[i] = *b
	}

	now := s.now().UTC()
	result := make([]*models.ServerView, 0, len(servers))
	for _, srv := range servers {
		result = append(result, &models.ServerView{
			Server:         *srv,
			Status:         ResolveStatus(*srv, bookings, now),
			CurrentBooking: CurrentBooking(srv.ID, bookings, now),
		})
	}

	if err := s.cache.Set("servers:list", result, 30*time.Second); err != nil {
		s.log.Warn("failed to cache server list", slog.Any("err", err))
	}
	return result, nil
}

// Read возвращает сервер с вычисленным статусом и полной историей бронирований.
func (s *Service) Read(ctx context.Context, id string) (*models.ServerView, []*models.Booking, error) {
	const op = "services.server.Read"

	srv, err := s.repo.ReadServer(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrServerNotFound)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	history, err := s.repo.ListBookingsForServer(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	bookings := make([]models.Booking, len(history))
	for i, b := range history {
		bookings[i] = *b
	}

	now := s.now().UTC()
	view := &models.ServerView{
		Server:         *srv,
		Status:         ResolveStatus(*srv, bookings, now),
		CurrentBooking: CurrentBooking(srv.ID, bookings, now),
	}
	return view, history, nil
}

// Create добавляет сервер в инвентарь. Только для администратора.
func (s *Service) Create(ctx context.Context, principal models.Principal, req models.DummyServer) (*models.Server, error) {
	const op = "services.server.Create"

	if !principal.IsAdmin {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	status := models.ServerAvailable
	if req.Status != "" {
		status = models.ServerStatus(req.Status)
	}
	srv := models.Server{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Specs:       req.Specs,
		Location:    req.Location,
		AdminStatus: status,
	}

	created, err := s.repo.CreateServer(ctx, srv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created server", slog.String("id", created.ID), slog.String("name", created.Name))
	s.invalidate(created.ID)
	return created, nil
}

// Update частично обновляет сервер: пустые поля запроса не изменяются.
// Только для администратора.
func (s *Service) Update(ctx context.Context, principal models.Principal, id string, req models.DummyServerUpdate) (*models.Server, error) {
	const op = "services.server.Update"

	if !principal.IsAdmin {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	srv, err := s.repo.ReadServer(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrServerNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Name != "" {
		srv.Name = req.Name
	}
	if req.Specs != nil {
		if req.Specs.CPU != "" {
			srv.Specs.CPU = req.Specs.CPU
		}
		if req.Specs.Memory != "" {
			srv.Specs.Memory = req.Specs.Memory
		}
		if req.Specs.Storage != "" {
			srv.Specs.Storage = req.Specs.Storage
		}
		srv.Specs.GPU = req.Specs.GPU
	}
	if req.Location != "" {
		srv.Location = req.Location
	}
	if req.Status != "" {
		srv.AdminStatus = models.ServerStatus(req.Status)
	}

	updated, err := s.repo.UpdateServer(ctx, *srv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated server", slog.String("id", updated.ID))
	s.invalidate(updated.ID)
	return updated, nil
}

// Delete удаляет сервер из инвентаря. Отказывает с ErrServerHasBookings,
// пока на сервере есть занимающие бронирования. Только для администратора.
func (s *Service) Delete(ctx context.Context, principal models.Principal, id string) error {
	const op = "services.server.Delete"

	if !principal.IsAdmin {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := s.repo.DeleteServer(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("%s: %w", op, ErrServerNotFound)
		case errors.Is(err, storage.ErrHasBookings):
			return fmt.Errorf("%s: %w", op, ErrServerHasBookings)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted server", slog.String("id", id))
	s.invalidate(id)
	return nil
}

func (s *Service) invalidate(serverID string) {
	for _, key := range []string{"servers:list", fmt.Sprintf("server:%s", serverID)} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}
