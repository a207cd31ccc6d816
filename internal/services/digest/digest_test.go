package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// MockRepository реализует интерфейс DigestRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockRepository) ListOccupyingBookingsForUser(ctx context.Context, userID string) ([]*models.BookingWithServer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BookingWithServer), args.Error(1)
}

func (m *MockRepository) CountAvailableServers(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) MarkPendingRenewal(ctx context.Context, deadline time.Time) (int, error) {
	args := m.Called(ctx, deadline)
	return args.Int(0), args.Error(1)
}

// MockPublisher реализует интерфейс Publisher
type MockPublisher struct {
	mock.Mock
	jobs []*models.DigestJob
}

func (m *MockPublisher) Publish(message any) error {
	args := m.Called(message)
	if job, ok := message.(*models.DigestJob); ok && args.Error(0) == nil {
		m.jobs = append(m.jobs, job)
	}
	return args.Error(0)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestService(repo DigestRepository, publisher Publisher, now time.Time) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, publisher, logger, 7*24*time.Hour).WithClock(func() time.Time { return now })
}

func TestRun(t *testing.T) {
	now := day("2026-03-12")
	users := []*models.User{
		{ID: "user-1", Name: "Alice", Email: "alice@lab.dev"},
		{ID: "user-2", Name: "Bob", Email: "bob@lab.dev"},
	}

	t.Run("job published per user", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("MarkPendingRenewal", mock.Anything, now.Add(7*24*time.Hour)).Return(1, nil)
		repo.On("CountAvailableServers", mock.Anything, now).Return(3, nil)
		repo.On("ListUsers", mock.Anything).Return(users, nil)
		repo.On("ListOccupyingBookingsForUser", mock.Anything, "user-1").
			Return([]*models.BookingWithServer{
				{
					Booking: models.Booking{
						ID:        "b1",
						ServerID:  "srv1",
						UserID:    "user-1",
						StartDate: day("2026-03-10"),
						EndDate:   day("2026-03-15"),
						Purpose:   "ML experiments",
						Status:    models.BookingActive,
					},
					ServerName: "gpu-node-01",
				},
				{
					Booking: models.Booking{
						ID:        "b2",
						ServerID:  "srv2",
						UserID:    "user-1",
						StartDate: day("2026-03-10"),
						EndDate:   day("2026-04-20"),
						Purpose:   "long run",
						Status:    models.BookingActive,
					},
					ServerName: "cpu-node-02",
				},
			}, nil)
		repo.On("ListOccupyingBookingsForUser", mock.Anything, "user-2").
			Return([]*models.BookingWithServer{}, nil)

		publisher := new(MockPublisher)
		publisher.On("Publish", mock.Anything).Return(nil)

		svc := newTestService(repo, publisher, now)
		result, err := svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, result.Published)
		assert.Equal(t, 0, result.Errors)
		assert.Equal(t, 1, result.Renewals)

		require.Len(t, publisher.jobs, 2)
		alice := publisher.jobs[0]
		assert.Equal(t, "alice@lab.dev", alice.Email)
		assert.Equal(t, 3, alice.ServersAvailable)
		assert.Len(t, alice.ActiveBookings, 2)
		// Только бронирование, заканчивающееся в пределах недели, попадает
		// в раздел заканчивающихся.
		require.Len(t, alice.ExpiringBookings, 1)
		assert.Equal(t, "gpu-node-01", alice.ExpiringBookings[0].ServerName)
		assert.Equal(t, 3, alice.ExpiringBookings[0].DaysRemaining)

		// Пользователь без бронирований тоже получает письмо.
		bob := publisher.jobs[1]
		assert.Equal(t, "bob@lab.dev", bob.Email)
		assert.Empty(t, bob.ActiveBookings)
	})

	t.Run("publish error does not abort run", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("MarkPendingRenewal", mock.Anything, mock.Anything).Return(0, nil)
		repo.On("CountAvailableServers", mock.Anything, now).Return(0, nil)
		repo.On("ListUsers", mock.Anything).Return(users, nil)
		repo.On("ListOccupyingBookingsForUser", mock.Anything, mock.Anything).
			Return([]*models.BookingWithServer{}, nil)

		publisher := new(MockPublisher)
		publisher.On("Publish", mock.Anything).Return(errors.New("broker down")).Once()
		publisher.On("Publish", mock.Anything).Return(nil).Once()

		svc := newTestService(repo, publisher, now)
		result, err := svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Published)
		assert.Equal(t, 1, result.Errors)
	})

	t.Run("renewal marking error does not abort run", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("MarkPendingRenewal", mock.Anything, mock.Anything).Return(0, errors.New("db error"))
		repo.On("CountAvailableServers", mock.Anything, now).Return(0, nil)
		repo.On("ListUsers", mock.Anything).Return([]*models.User{}, nil)

		publisher := new(MockPublisher)
		svc := newTestService(repo, publisher, now)
		result, err := svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, result.Renewals)
	})

	t.Run("user list error aborts run", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("MarkPendingRenewal", mock.Anything, mock.Anything).Return(0, nil)
		repo.On("CountAvailableServers", mock.Anything, now).Return(0, nil)
		repo.On("ListUsers", mock.Anything).Return(nil, errors.New("db error"))

		publisher := new(MockPublisher)
		svc := newTestService(repo, publisher, now)
		_, err := svc.Run(context.Background())
		assert.Error(t, err)
	})
}
