package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

// MockRepository реализует интерфейс UserRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockRepository) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) (*models.User, error) {
	args := m.Called(ctx, id, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(repo UserRepository) *Service {
	return New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var (
	adminPrincipal = models.Principal{UserID: "admin-1", IsAdmin: true}
	userPrincipal  = models.Principal{UserID: "user-1"}
)

func TestUserList(t *testing.T) {
	t.Run("admin gets the list", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListUsers", mock.Anything).Return([]*models.User{{ID: "user-1"}}, nil)

		svc := newTestService(repo)
		users, err := svc.List(context.Background(), adminPrincipal)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		_, err := svc.List(context.Background(), userPrincipal)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUserGet(t *testing.T) {
	t.Run("user reads own profile", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Email: "user@lab.dev"}, nil)

		svc := newTestService(repo)
		user, err := svc.Get(context.Background(), userPrincipal, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user@lab.dev", user.Email)
	})

	t.Run("admin reads any profile", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1"}, nil)

		svc := newTestService(repo)
		_, err := svc.Get(context.Background(), adminPrincipal, "user-1")
		assert.NoError(t, err)
	})

	t.Run("another user's profile forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		_, err := svc.Get(context.Background(), userPrincipal, "user-2")
		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "GetUserByID")
	})

	t.Run("user not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByID", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

		svc := newTestService(repo)
		_, err := svc.Get(context.Background(), adminPrincipal, "missing")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserDelete(t *testing.T) {
	t.Run("delete another user's account", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("DeleteUser", mock.Anything, "user-1").Return(nil)

		svc := newTestService(repo)
		err := svc.Delete(context.Background(), adminPrincipal, "user-1")
		assert.NoError(t, err)
	})

	t.Run("cannot delete own account", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		err := svc.Delete(context.Background(), adminPrincipal, "admin-1")
		assert.ErrorIs(t, err, ErrSelfAction)
		repo.AssertNotCalled(t, "DeleteUser")
	})

	t.Run("user not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("DeleteUser", mock.Anything, "missing").Return(storage.ErrNotFound)

		svc := newTestService(repo)
		err := svc.Delete(context.Background(), adminPrincipal, "missing")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestToggleAdmin(t *testing.T) {
	t.Run("flag flips to the opposite value", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", IsAdmin: false}, nil)
		repo.On("SetAdmin", mock.Anything, "user-1", true).
			Return(&models.User{ID: "user-1", IsAdmin: true}, nil)

		svc := newTestService(repo)
		updated, err := svc.ToggleAdmin(context.Background(), adminPrincipal, "user-1")
		require.NoError(t, err)
		assert.True(t, updated.IsAdmin)
		repo.AssertExpectations(t)
	})

	t.Run("cannot toggle own account", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		_, err := svc.ToggleAdmin(context.Background(), adminPrincipal, "admin-1")
		assert.ErrorIs(t, err, ErrSelfAction)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo)

		_, err := svc.ToggleAdmin(context.Background(), userPrincipal, "user-2")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
