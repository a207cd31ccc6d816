package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

const serverColumns = `id, name, cpu_spec, memory_spec, storage_spec, gpu_spec,
	location, admin_status`

func scanServer(row interface{ Scan(...any) error }) (*models.Server, error) {
	var srv models.Server
	var gpu sql.NullString
	err := row.Scan(&srv.ID, &srv.Name, &srv.Specs.CPU, &srv.Specs.Memory,
		&srv.Specs.Storage, &gpu, &srv.Location, &srv.AdminStatus)
	if err != nil {
		return nil, err
	}
	srv.Specs.GPU = gpu.String
	return &srv, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateServer вставляет новый сервер инвентаря.
func (s *Storage) CreateServer(ctx context.Context, srv models.Server) (*models.Server, error) {
	const op = "storage.CreateServer"

	row := s.DB.QueryRowContext(ctx,
		`INSERT INTO servers (id, name, cpu_spec, memory_spec, storage_spec, gpu_spec,
		                      location, admin_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+serverColumns,
		srv.ID, srv.Name, srv.Specs.CPU, srv.Specs.Memory, srv.Specs.Storage,
		nullable(srv.Specs.GPU), srv.Location, srv.AdminStatus)
	created, err := scanServer(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ReadServer возвращает сервер по ID.
func (s *Storage) ReadServer(ctx context.Context, id string) (*models.Server, error) {
	const op = "storage.ReadServer"

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+serverColumns+` FROM servers WHERE id = $1`, id)
	srv, err := scanServer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return srv, nil
}

// UpdateServer перезаписывает данные сервера.
func (s *Storage) UpdateServer(ctx context.Context, srv models.Server) (*models.Server, error) {
	const op = "storage.UpdateServer"

	row := s.DB.QueryRowContext(ctx,
		`UPDATE servers
		 SET name = $2, cpu_spec = $3, memory_spec = $4, storage_spec = $5,
		     gpu_spec = $6, location = $7, admin_status = $8
		 WHERE id = $1
		 RETURNING `+serverColumns,
		srv.ID, srv.Name, srv.Specs.CPU, srv.Specs.Memory, srv.Specs.Storage,
		nullable(srv.Specs.GPU), srv.Location, srv.AdminStatus)
	updated, err := scanServer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// DeleteServer удаляет сервер. Удаление запрещено, пока на сервере есть
// занимающие бронирования: строка сервера блокируется, затем проверяется
// их отсутствие. Возвращает ErrHasBookings при нарушении.
func (s *Storage) DeleteServer(ctx context.Context, id string) error {
	const op = "storage.DeleteServer"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var serverID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM servers WHERE id = $1 FOR UPDATE`, id).Scan(&serverID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var occupying int
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings
		 WHERE server_id = $1 AND status IN ('active', 'pending_renewal')`,
		id).Scan(&occupying)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if occupying > 0 {
		return fmt.Errorf("%s: %w", op, ErrHasBookings)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE server_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM servers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListServers возвращает все серверы инвентаря.
func (s *Storage) ListServers(ctx context.Context) ([]*models.Server, error) {
	const op = "storage.ListServers"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+serverColumns+` FROM servers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Server
	for rows.Next() {
		srv, err := scanServer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, srv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
