// Package services содержит логику еженедельного дайджеста: пометку
// заканчивающихся бронирований, сборку сводки по каждому пользователю
// и публикацию заданий рассылки в очередь.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lab-reserve/internal/lib/dates"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// DigestRepository описывает запросы хранилища, нужные для сборки дайджеста.
type DigestRepository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListOccupyingBookingsForUser(ctx context.Context, userID string) ([]*models.BookingWithServer, error)
	CountAvailableServers(ctx context.Context, now time.Time) (int, error)
	// MarkPendingRenewal переводит заканчивающиеся бронирования
	// в pending_renewal и взводит флаг уведомления.
	MarkPendingRenewal(ctx context.Context, deadline time.Time) (int, error)
}

// Publisher публикует задание рассылки в очередь.
type Publisher interface {
	Publish(message any) error
}

// Service собирает еженедельный дайджест.
type Service struct {
	repo           DigestRepository
	publisher      Publisher
	log            *slog.Logger
	expiringWithin time.Duration
	now            func() time.Time
}

// Result итог одного прогона дайджеста.
type Result struct {
	Published int `json:"published"`
	Errors    int `json:"errors"`
	Renewals  int `json:"renewals_marked"`
}

// New создает новый Service. expiringWithin — горизонт, в пределах которого
// бронирование считается заканчивающимся.
func New(repo DigestRepository, publisher Publisher, log *slog.Logger, expiringWithin time.Duration) *Service {
	return &Service{
		repo:           repo,
		publisher:      publisher,
		log:            log,
		expiringWithin: expiringWithin,
		now:            time.Now,
	}
}

// WithClock заменяет источник времени. Используется в тестах.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run выполняет один прогон дайджеста: помечает заканчивающиеся бронирования,
// затем публикует по одному заданию на каждого пользователя. Пользователи
// без бронирований тоже получают письмо со счетчиком свободных серверов.
func (s *Service) Run(ctx context.Context) (Result, error) {
	const op = "services.digest.Run"
	var result Result

	now := s.now().UTC()
	deadline := now.Add(s.expiringWithin)

	marked, err := s.repo.MarkPendingRenewal(ctx, deadline)
	if err != nil {
		s.log.Error("failed to mark pending renewals", sl.Err(err))
	} else {
		result.Renewals = marked
	}

	available, err := s.repo.CountAvailableServers(ctx, now)
	if err != nil {
		return result, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return result, err
	}

	for _, user := range users {
		job, err := s.buildJob(ctx, user, available, now)
		if err != nil {
			s.log.Error("failed to build digest", slog.String("email", user.Email), sl.Err(err))
			result.Errors++
			continue
		}
		if err := s.publisher.Publish(job); err != nil {
			s.log.Error("failed to publish digest", slog.String("email", user.Email), sl.Err(err))
			result.Errors++
			continue
		}
		result.Published++
	}

	s.log.Info("digest run complete",
		slog.Int("published", result.Published),
		slog.Int("errors", result.Errors),
		slog.Int("renewals_marked", result.Renewals))
	return result, nil
}

func (s *Service) buildJob(ctx context.Context, user *models.User, available int, now time.Time) (*models.DigestJob, error) {
	occupying, err := s.repo.ListOccupyingBookingsForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	job := &models.DigestJob{
		Name:             user.Name,
		Email:            user.Email,
		ServersAvailable: available,
	}
	for _, b := range occupying {
		summary := models.BookingSummary{
			ServerName:    b.ServerName,
			StartDate:     b.StartDate,
			EndDate:       b.EndDate,
			DaysRemaining: dates.DaysRemaining(b.EndDate, now),
			Purpose:       b.Purpose,
			Status:        b.Status,
		}
		job.ActiveBookings = append(job.ActiveBookings, summary)
		if b.EndDate.Sub(now) <= s.expiringWithin {
			job.ExpiringBookings = append(job.ExpiringBookings, summary)
		}
	}
	return job, nil
}
