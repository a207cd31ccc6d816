// Package storage реализует хранилище данных на основе PostgreSQL
// для управления серверами, бронированиями, пользователями и сессиями.
// Проверка конфликта интервалов и вставка бронирования выполняются
// в одной транзакции под блокировкой строки сервера.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrConflict интервал бронирования пересекается с существующим.
	ErrConflict = errors.New("booking interval conflict")
	// ErrEmailTaken пользователь с таким email уже существует.
	ErrEmailTaken = errors.New("email already registered")
	// ErrHasBookings на сервере есть занимающие бронирования.
	ErrHasBookings = errors.New("server has occupying bookings")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'bookings'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table bookings missing or query error: %w", err)
	}
	return nil
}
