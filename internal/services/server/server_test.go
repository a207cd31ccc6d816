package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

// MockRepository реализует интерфейс ServerRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateServer(ctx context.Context, srv models.Server) (*models.Server, error) {
	args := m.Called(ctx, srv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Server), args.Error(1)
}

func (m *MockRepository) ReadServer(ctx context.Context, id string) (*models.Server, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Server), args.Error(1)
}

func (m *MockRepository) UpdateServer(ctx context.Context, srv models.Server) (*models.Server, error) {
	args := m.Called(ctx, srv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Server), args.Error(1)
}

func (m *MockRepository) DeleteServer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListServers(ctx context.Context) ([]*models.Server, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Server), args.Error(1)
}

func (m *MockRepository) ListOccupyingBookings(ctx context.Context) ([]*models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockRepository) ListBookingsForServer(ctx context.Context, serverID string) ([]*models.Booking, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

// noopCache кеш, который никогда не находит значение.
type noopCache struct{}

func (noopCache) Get(_ string, _ any) (bool, error)          { return false, nil }
func (noopCache) Set(_ string, _ any, _ time.Duration) error { return nil }
func (noopCache) Invalidate(_ string) error                  { return nil }

func newTestService(repo ServerRepository, now time.Time) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, noopCache{}, logger).WithClock(func() time.Time { return now })
}

var (
	adminPrincipal = models.Principal{UserID: "admin-1", IsAdmin: true}
	userPrincipal  = models.Principal{UserID: "user-1"}
)

func TestServerList(t *testing.T) {
	now := day("2026-03-15")

	repo := new(MockRepository)
	repo.On("ListServers", mock.Anything).Return([]*models.Server{
		{ID: "srv1", Name: "gpu-node-01", AdminStatus: models.ServerAvailable},
		{ID: "srv2", Name: "cpu-node-02", AdminStatus: models.ServerMaintenance},
		{ID: "srv3", Name: "cpu-node-03", AdminStatus: models.ServerAvailable},
	}, nil)
	repo.On("ListOccupyingBookings", mock.Anything).Return([]*models.Booking{
		{
			ID:        "b1",
			ServerID:  "srv1",
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-20"),
			Status:    models.BookingActive,
		},
	}, nil)

	svc := newTestService(repo, now)
	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, models.ServerBooked, views[0].Status)
	require.NotNil(t, views[0].CurrentBooking)
	assert.Equal(t, "b1", views[0].CurrentBooking.ID)

	assert.Equal(t, models.ServerMaintenance, views[1].Status)
	assert.Nil(t, views[1].CurrentBooking)

	assert.Equal(t, models.ServerAvailable, views[2].Status)
}

func TestServerRead(t *testing.T) {
	now := day("2026-03-15")

	t.Run("server with booking history", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadServer", mock.Anything, "srv1").
			Return(&models.Server{ID: "srv1", AdminStatus: models.ServerAvailable}, nil)
		repo.On("ListBookingsForServer", mock.Anything, "srv1").
			Return([]*models.Booking{
				{ID: "b1", ServerID: "srv1", StartDate: day("2026-01-01"), EndDate: day("2026-01-10"), Status: models.BookingCompleted},
			}, nil)

		svc := newTestService(repo, now)
		view, history, err := svc.Read(context.Background(), "srv1")
		require.NoError(t, err)
		// Прошедшее бронирование не делает сервер занятым.
		assert.Equal(t, models.ServerAvailable, view.Status)
		assert.Len(t, history, 1)
	})

	t.Run("server not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadServer", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

		svc := newTestService(repo, now)
		_, _, err := svc.Read(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrServerNotFound)
	})
}

func TestServerCreate(t *testing.T) {
	now := day("2026-03-15")

	t.Run("defaults to available status", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreateServer", mock.Anything, mock.MatchedBy(func(srv models.Server) bool {
			return srv.AdminStatus == models.ServerAvailable && srv.Name == "gpu-node-01"
		})).Return(&models.Server{ID: "srv1", Name: "gpu-node-01"}, nil)

		svc := newTestService(repo, now)
		_, err := svc.Create(context.Background(), adminPrincipal, models.DummyServer{
			Name:     "gpu-node-01",
			Specs:    models.ServerSpecs{CPU: "2x EPYC 7763", Memory: "512GB", Storage: "8TB NVMe"},
			Location: "rack A1",
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, now)

		_, err := svc.Create(context.Background(), userPrincipal, models.DummyServer{Name: "x"})
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "CreateServer")
	})
}

func TestServerUpdate(t *testing.T) {
	now := day("2026-03-15")
	existing := &models.Server{
		ID:          "srv1",
		Name:        "gpu-node-01",
		Specs:       models.ServerSpecs{CPU: "2x EPYC 7763", Memory: "512GB", Storage: "8TB NVMe", GPU: "4x A100"},
		Location:    "rack A1",
		AdminStatus: models.ServerAvailable,
	}

	t.Run("empty fields are not changed", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ReadServer", mock.Anything, "srv1").Return(existing, nil)
		repo.On("UpdateServer", mock.Anything, mock.MatchedBy(func(srv models.Server) bool {
			return srv.Name == "gpu-node-01" &&
				srv.Location == "rack B2" &&
				srv.AdminStatus == models.ServerMaintenance
		})).Return(existing, nil)

		svc := newTestService(repo, now)
		_, err := svc.Update(context.Background(), adminPrincipal, "srv1", models.DummyServerUpdate{
			Location: "rack B2",
			Status:   "maintenance",
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, now)

		_, err := svc.Update(context.Background(), userPrincipal, "srv1", models.DummyServerUpdate{})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestServerDelete(t *testing.T) {
	now := day("2026-03-15")

	t.Run("success delete", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("DeleteServer", mock.Anything, "srv1").Return(nil)

		svc := newTestService(repo, now)
		err := svc.Delete(context.Background(), adminPrincipal, "srv1")
		assert.NoError(t, err)
	})

	t.Run("occupying bookings block delete", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("DeleteServer", mock.Anything, "srv1").Return(storage.ErrHasBookings)

		svc := newTestService(repo, now)
		err := svc.Delete(context.Background(), adminPrincipal, "srv1")
		assert.ErrorIs(t, err, ErrServerHasBookings)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, now)

		err := svc.Delete(context.Background(), userPrincipal, "srv1")
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "DeleteServer")
	})
}
