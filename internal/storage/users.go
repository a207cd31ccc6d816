package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

const userColumns = `id, name, email, password_hash, is_admin, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RegisterUser сохраняет нового пользователя. Возвращает ErrEmailTaken,
// если email уже зарегистрирован.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.RegisterUser"

	row := s.DB.QueryRowContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt)
	created, err := scanUser(row)
	if err != nil {
		if strings.Contains(err.Error(), "users_email_key") {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по ID.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteUser удаляет пользователя вместе с его сессиями.
// Бронирования остаются как исторические записи.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.DeleteUser"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// SetAdmin выставляет признак администратора.
func (s *Storage) SetAdmin(ctx context.Context, id string, isAdmin bool) (*models.User, error) {
	const op = "storage.SetAdmin"

	row := s.DB.QueryRowContext(ctx,
		`UPDATE users SET is_admin = $2 WHERE id = $1 RETURNING `+userColumns,
		id, isAdmin)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
