package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// CreateSession сохраняет сессию, выданную при входе.
func (s *Storage) CreateSession(ctx context.Context, session models.Session) error {
	const op = "storage.CreateSession"

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSession возвращает сессию по токену.
func (s *Storage) GetSession(ctx context.Context, token string) (*models.Session, error) {
	const op = "storage.GetSession"

	var session models.Session
	err := s.DB.QueryRowContext(ctx,
		`SELECT token, user_id, expires_at FROM sessions WHERE token = $1`, token).
		Scan(&session.Token, &session.UserID, &session.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}

// DeleteSession удаляет сессию (выход пользователя или отзыв).
// Отсутствие строки не является ошибкой.
func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	const op = "storage.DeleteSession"

	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteExpiredSessions удаляет сессии, истекшие к моменту now.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.DeleteExpiredSessions"

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
