// Package services содержит административные операции над учетными
// записями: список, удаление и переключение признака администратора.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

var (
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden у пользователя недостаточно прав на операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrSelfAction администратор не может удалить себя или снять с себя права.
	ErrSelfAction = errors.New("cannot perform this action on your own account")
)

// UserRepository описывает административный контракт работы с пользователями.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) (*models.User, error)
}

// Service реализует административное управление пользователями.
type Service struct {
	repo UserRepository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo UserRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List возвращает всех пользователей. Только для администратора.
func (s *Service) List(ctx context.Context, principal models.Principal) ([]*models.User, error) {
	const op = "services.user.List"

	if !principal.IsAdmin {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Get возвращает профиль пользователя. Доступно самому пользователю
// или администратору.
func (s *Service) Get(ctx context.Context, principal models.Principal, userID string) (*models.User, error) {
	const op = "services.user.Get"

	if !principal.IsAdmin && principal.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Delete удаляет учетную запись. Только администратор и только чужую.
func (s *Service) Delete(ctx context.Context, principal models.Principal, userID string) error {
	const op = "services.user.Delete"

	if !principal.IsAdmin {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if principal.UserID == userID {
		return fmt.Errorf("%s: %w", op, ErrSelfAction)
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted user", slog.String("id", userID))
	return nil
}

// ToggleAdmin переключает признак администратора. Только администратор
// и только на чужой учетной записи.
func (s *Service) ToggleAdmin(ctx context.Context, principal models.Principal, userID string) (*models.User, error) {
	const op = "services.user.ToggleAdmin"

	if !principal.IsAdmin {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if principal.UserID == userID {
		return nil, fmt.Errorf("%s: %w", op, ErrSelfAction)
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated, err := s.repo.SetAdmin(ctx, userID, !user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("toggled admin flag",
		slog.String("id", userID), slog.Bool("is_admin", updated.IsAdmin))
	return updated, nil
}
