package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// ListOccupyingBookingsForUser возвращает занимающие бронирования
// пользователя вместе с именами серверов для еженедельного дайджеста.
func (s *Storage) ListOccupyingBookingsForUser(ctx context.Context, userID string) ([]*models.BookingWithServer, error) {
	const op = "storage.ListOccupyingBookingsForUser"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT b.id, b.server_id, b.user_id, b.start_date, b.end_date, b.purpose,
		        b.status, b.days_booked, b.renewal_notification_sent, b.created_at,
		        s.name
		 FROM bookings b
		 JOIN servers s ON s.id = b.server_id
		 WHERE b.user_id = $1 AND b.status IN ('active', 'pending_renewal')
		 ORDER BY b.end_date`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.BookingWithServer
	for rows.Next() {
		var item models.BookingWithServer
		if err := rows.Scan(&item.ID, &item.ServerID, &item.UserID, &item.StartDate,
			&item.EndDate, &item.Purpose, &item.Status, &item.DaysBooked,
			&item.RenewalNotificationSent, &item.CreatedAt, &item.ServerName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountAvailableServers подсчитывает серверы, доступные для бронирования
// в момент now: административный статус available и нет занимающего
// бронирования, покрывающего now. Статус не хранится, а выводится,
// поэтому подсчет повторяет правило Status Resolver на стороне SQL.
func (s *Storage) CountAvailableServers(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.CountAvailableServers"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM servers s
		 WHERE s.admin_status = 'available'
		   AND NOT EXISTS (
		       SELECT 1 FROM bookings b
		       WHERE b.server_id = s.id
		         AND b.status IN ('active', 'pending_renewal')
		         AND b.start_date <= $1
		         AND b.end_date >= $1
		   )`,
		now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
