// Package services содержит бизнес-логику жизненного цикла бронирований:
// создание, продление и отмена с проверкой конфликтов и прав доступа.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/lab-reserve/internal/lib/dates"
	"github.com/magabrotheeeer/lab-reserve/internal/metrics"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

var (
	// ErrServerAlreadyBooked интервал пересекается с существующим бронированием.
	ErrServerAlreadyBooked = errors.New("server is already booked for the selected dates")
	// ErrBookingNotFound бронирование не найдено.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrServerNotFound сервер не найден.
	ErrServerNotFound = errors.New("server not found")
	// ErrPurposeRequired цель бронирования не указана.
	ErrPurposeRequired = errors.New("purpose is required")
	// ErrForbidden у пользователя недостаточно прав на операцию.
	ErrForbidden = errors.New("forbidden")
)

// BookingRepository определяет методы для работы с бронированиями в хранилище.
type BookingRepository interface {
	// CreateBooking проверяет конфликты и вставляет бронирование атомарно.
	CreateBooking(ctx context.Context, b models.Booking) (*models.Booking, error)
	// ExtendBooking заменяет дату окончания с повторной проверкой конфликтов.
	ExtendBooking(ctx context.Context, id string, newEnd time.Time, daysBooked int) (*models.Booking, error)
	// CancelBooking идемпотентно переводит бронирование в cancelled.
	CancelBooking(ctx context.Context, id string) (*models.Booking, error)
	// ReadBooking возвращает бронирование по ID.
	ReadBooking(ctx context.Context, id string) (*models.Booking, error)
	// ListBookings возвращает все бронирования, новые первыми.
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	// ListBookingsForUser возвращает бронирования пользователя, новые первыми.
	ListBookingsForUser(ctx context.Context, userID string) ([]*models.Booking, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Clock выдает текущее время; в тестах подменяется фиксированным значением.
type Clock func() time.Time

// Service реализует жизненный цикл бронирований.
type Service struct {
	repo  BookingRepository
	cache Cache
	log   *slog.Logger
	now   Clock
}

// New создает новый Service.
func New(repo BookingRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// WithClock заменяет источник времени. Используется в тестах.
func (s *Service) WithClock(now Clock) *Service {
	s.now = now
	return s
}

// Create создает бронирование со статусом active.
// Порядок проверок: диапазон дат, цель, затем конфликт внутри транзакции
// хранилища. При любой ошибке хранилище не изменяется.
func (s *Service) Create(ctx context.Context, principal models.Principal, req models.DummyBooking) (*models.Booking, error) {
	const op = "services.booking.Create"

	start, err := time.Parse(dates.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid start date: %w", op, err)
	}
	end, err := time.Parse(dates.DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid end date: %w", op, err)
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	if err := dates.ValidateRange(start, end, today); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(req.Purpose) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrPurposeRequired)
	}

	booking := models.Booking{
		ID:         uuid.NewString(),
		ServerID:   req.ServerID,
		UserID:     principal.UserID,
		StartDate:  start,
		EndDate:    end,
		Purpose:    req.Purpose,
		Status:     models.BookingActive,
		DaysBooked: dates.DaysBooked(start, end),
		CreatedAt:  s.now().UTC(),
	}

	created, err := s.repo.CreateBooking(ctx, booking)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			metrics.BookingConflicts.Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrServerAlreadyBooked)
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrServerNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.BookingsCreated.Inc()
	s.log.Info("created new booking",
		slog.String("id", created.ID),
		slog.String("server_id", created.ServerID),
		slog.Int("days_booked", created.DaysBooked))

	s.invalidateCaches(created.ServerID, created.UserID)
	return created, nil
}

// Extend заменяет дату окончания бронирования. Новая дата должна быть позже
// текущей даты окончания; с "сейчас" она не сравнивается. Days_booked
// пересчитывается от исходной даты начала, флаг уведомления сбрасывается,
// статус возвращается в active. Продлевать может владелец или администратор.
func (s *Service) Extend(ctx context.Context, principal models.Principal, bookingID string, req models.DummyExtend) (*models.Booking, error) {
	const op = "services.booking.Extend"

	newEnd, err := time.Parse(dates.DateLayout, req.NewEndDate)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid new end date: %w", op, err)
	}

	booking, err := s.repo.ReadBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := requireOwnerOrAdmin(principal, booking.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !newEnd.After(booking.EndDate) {
		return nil, fmt.Errorf("%s: %w", op, dates.ErrInvalidRange)
	}

	daysBooked := dates.DaysBooked(booking.StartDate, newEnd)
	updated, err := s.repo.ExtendBooking(ctx, bookingID, newEnd, daysBooked)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			metrics.BookingConflicts.Inc()
			return nil, fmt.Errorf("%s: %w", op, ErrServerAlreadyBooked)
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("extended booking",
		slog.String("id", updated.ID),
		slog.Int("days_booked", updated.DaysBooked))

	s.invalidateCaches(updated.ServerID, updated.UserID)
	return updated, nil
}

// Cancel переводит бронирование в cancelled. Операция идемпотентна:
// повторная отмена возвращает бронирование без ошибки. Отменять может
// владелец или администратор. Статус сервера пересчитывается на чтении,
// поэтому никаких записей в таблицу серверов не требуется.
func (s *Service) Cancel(ctx context.Context, principal models.Principal, bookingID string) (*models.Booking, error) {
	const op = "services.booking.Cancel"

	booking, err := s.repo.ReadBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := requireOwnerOrAdmin(principal, booking.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cancelled, err := s.repo.CancelBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.BookingsCancelled.Inc()
	s.log.Info("cancelled booking", slog.String("id", cancelled.ID))

	s.invalidateCaches(cancelled.ServerID, cancelled.UserID)
	return cancelled, nil
}

// List возвращает все бронирования. Доступно только администратору.
func (s *Service) List(ctx context.Context, principal models.Principal) ([]*models.Booking, error) {
	const op = "services.booking.List"

	if !principal.IsAdmin {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	bookings, err := s.repo.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}

// ListForUser возвращает бронирования пользователя userID.
// Доступно самому пользователю или администратору.
func (s *Service) ListForUser(ctx context.Context, principal models.Principal, userID string) ([]*models.Booking, error) {
	const op = "services.booking.ListForUser"

	if err := requireOwnerOrAdmin(principal, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cached []*models.Booking
	cacheKey := fmt.Sprintf("bookings:user:%s", userID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err == nil && found {
		return cached, nil
	}

	bookings, err := s.repo.ListBookingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(cacheKey, bookings, time.Minute); err != nil {
		s.log.Warn("failed to cache user bookings", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return bookings, nil
}

func (s *Service) invalidateCaches(serverID, userID string) {
	for _, key := range []string{
		"servers:list",
		fmt.Sprintf("server:%s", serverID),
		fmt.Sprintf("bookings:user:%s", userID),
	} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}

func requireOwnerOrAdmin(principal models.Principal, ownerID string) error {
	if principal.IsAdmin || principal.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}
