package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

const bookingColumns = `id, server_id, user_id, start_date, end_date, purpose,
	status, days_booked, renewal_notification_sent, created_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.ServerID, &b.UserID, &b.StartDate, &b.EndDate,
		&b.Purpose, &b.Status, &b.DaysBooked, &b.RenewalNotificationSent, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBooking вставляет новое бронирование, предварительно проверив
// отсутствие пересечений. Строка сервера блокируется FOR UPDATE, поэтому
// из двух конкурирующих запросов на пересекающиеся даты выигрывает
// не более одного. Возвращает ErrConflict при пересечении и ErrNotFound,
// если сервер не существует.
func (s *Storage) CreateBooking(ctx context.Context, b models.Booking) (*models.Booking, error) {
	const op = "storage.CreateBooking"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var serverID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM servers WHERE id = $1 FOR UPDATE`, b.ServerID).Scan(&serverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings
		 WHERE server_id = $1
		   AND status IN ('active', 'pending_renewal')
		   AND start_date < $3
		   AND end_date > $2`,
		b.ServerID, b.StartDate, b.EndDate).Scan(&conflicts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if conflicts > 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrConflict)
	}

	row := tx.QueryRowContext(ctx,
		`INSERT INTO bookings (id, server_id, user_id, start_date, end_date, purpose,
		                       status, days_booked, renewal_notification_sent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+bookingColumns,
		b.ID, b.ServerID, b.UserID, b.StartDate, b.EndDate, b.Purpose,
		b.Status, b.DaysBooked, b.RenewalNotificationSent, b.CreatedAt)
	created, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ExtendBooking заменяет дату окончания бронирования, пересчитывает
// days_booked, сбрасывает флаг уведомления и возвращает статус в active.
// Перед обновлением строка сервера блокируется и пересечения проверяются
// заново, исключая само бронирование. Возвращает ErrNotFound или ErrConflict.
func (s *Storage) ExtendBooking(ctx context.Context, id string, newEnd time.Time, daysBooked int) (*models.Booking, error) {
	const op = "storage.ExtendBooking"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var serverID string
	var start time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT server_id, start_date FROM bookings WHERE id = $1 FOR UPDATE`, id).
		Scan(&serverID, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`SELECT id FROM servers WHERE id = $1 FOR UPDATE`, serverID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var conflicts int
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings
		 WHERE server_id = $1
		   AND id <> $2
		   AND status IN ('active', 'pending_renewal')
		   AND start_date < $4
		   AND end_date > $3`,
		serverID, id, start, newEnd).Scan(&conflicts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if conflicts > 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrConflict)
	}

	row := tx.QueryRowContext(ctx,
		`UPDATE bookings
		 SET end_date = $2, days_booked = $3, renewal_notification_sent = false,
		     status = 'active'
		 WHERE id = $1
		 RETURNING `+bookingColumns,
		id, newEnd, daysBooked)
	updated, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// CancelBooking устанавливает статус cancelled. Операция идемпотентна:
// повторная отмена не является ошибкой.
func (s *Storage) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "storage.CancelBooking"

	row := s.DB.QueryRowContext(ctx,
		`UPDATE bookings SET status = 'cancelled' WHERE id = $1
		 RETURNING `+bookingColumns, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// ReadBooking возвращает бронирование по ID.
func (s *Storage) ReadBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "storage.ReadBooking"

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// ListBookings возвращает все бронирования, новые первыми.
func (s *Storage) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	const op = "storage.ListBookings"
	return s.queryBookings(ctx, op,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
}

// ListBookingsForUser возвращает бронирования пользователя, новые первыми.
func (s *Storage) ListBookingsForUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	const op = "storage.ListBookingsForUser"
	return s.queryBookings(ctx, op,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
}

// ListBookingsForServer возвращает все бронирования сервера,
// включая исторические.
func (s *Storage) ListBookingsForServer(ctx context.Context, serverID string) ([]*models.Booking, error) {
	const op = "storage.ListBookingsForServer"
	return s.queryBookings(ctx, op,
		`SELECT `+bookingColumns+` FROM bookings WHERE server_id = $1
		 ORDER BY created_at DESC`, serverID)
}

// ListOccupyingBookings возвращает занимающие бронирования
// (active и pending_renewal) для всех серверов.
func (s *Storage) ListOccupyingBookings(ctx context.Context) ([]*models.Booking, error) {
	const op = "storage.ListOccupyingBookings"
	return s.queryBookings(ctx, op,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE status IN ('active', 'pending_renewal')`)
}

// CountOccupyingBookingsForServer подсчитывает занимающие бронирования сервера.
func (s *Storage) CountOccupyingBookingsForServer(ctx context.Context, serverID string) (int, error) {
	const op = "storage.CountOccupyingBookingsForServer"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings
		 WHERE server_id = $1 AND status IN ('active', 'pending_renewal')`,
		serverID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// MarkPendingRenewal переводит в pending_renewal занимающие бронирования,
// заканчивающиеся не позже deadline, по которым уведомление еще не отправлено,
// и взводит флаг уведомления. Возвращает количество затронутых строк.
func (s *Storage) MarkPendingRenewal(ctx context.Context, deadline time.Time) (int, error) {
	const op = "storage.MarkPendingRenewal"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE bookings
		 SET status = 'pending_renewal', renewal_notification_sent = true
		 WHERE status = 'active'
		   AND renewal_notification_sent = false
		   AND end_date <= $1`,
		deadline)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func (s *Storage) queryBookings(ctx context.Context, op, query string, args ...any) ([]*models.Booking, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
