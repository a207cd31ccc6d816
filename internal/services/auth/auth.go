// Package services содержит логику бизнес-уровня для работы с пользователями
// и аутентификацией: регистрация, вход с выдачей JWT и сессии, выход
// и проверка токена вместе с живой сессией.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/lab-reserve/internal/lib/jwt"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/password"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

var (
	// ErrInvalidCredentials email или пароль не подходят.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken пользователь с таким email уже существует.
	ErrEmailTaken = errors.New("user already exists with this email")
	// ErrUnauthenticated токен отсутствует, просрочен или сессия отозвана.
	ErrUnauthenticated = errors.New("invalid or expired session")
)

// UserRepository описывает контракт для работы с пользователями и сессиями.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя.
	RegisterUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя по ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// CreateSession сохраняет выданную сессию.
	CreateSession(ctx context.Context, session models.Session) error
	// GetSession возвращает сессию по токену.
	GetSession(ctx context.Context, token string) (*models.Session, error)
	// DeleteSession удаляет сессию по токену.
	DeleteSession(ctx context.Context, token string) error
}

// AuthService отвечает за регистрацию, вход, выход и валидацию токенов.
type AuthService struct {
	users    UserRepository
	jwtMaker *jwt.MakerImpl
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker *jwt.MakerImpl) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Признак администратора при самостоятельной регистрации всегда false.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (*models.User, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		IsAdmin:      false,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Login проверяет пароль пользователя, генерирует JWT и сохраняет сессию.
// Возвращает токен, срок его действия и пользователя.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (string, time.Time, *models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	expiresAt := time.Now().UTC().Add(s.jwtMaker.TokenTTL())

	session := models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		return "", time.Time{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, expiresAt, user, nil
}

// Logout удаляет сессию; токен после этого отклоняется при проверке,
// даже если срок его подписи еще не истек.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "services.auth.Logout"
	if err := s.users.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет подпись JWT и наличие живой сессии в хранилище.
// Просроченная сессия удаляется при обнаружении. Возвращает Principal.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.Principal, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	session, err := s.users.GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if session.Expired(time.Now().UTC()) {
		_ = s.users.DeleteSession(ctx, token)
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	return &models.Principal{
		UserID:  claims.UserID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}, nil
}

// Me возвращает профиль аутентифицированного пользователя.
func (s *AuthService) Me(ctx context.Context, principal models.Principal) (*models.User, error) {
	const op = "services.auth.Me"

	user, err := s.users.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
