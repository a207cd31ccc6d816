package services

import (
	"time"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// Overlaps сообщает, пересекается ли интервал [start, end] с бронированием.
// Сравнение строгое с обеих сторон: касание границ конфликтом не считается,
// поэтому бронирование, заканчивающееся в день X, совместимо с бронированием,
// начинающимся в день X.
func Overlaps(start, end time.Time, b models.Booking) bool {
	return start.Before(b.EndDate) && end.After(b.StartDate)
}

// HasConflict проверяет, пересекается ли предлагаемый интервал на сервере
// serverID с каким-либо занимающим бронированием из bookings.
// Кандидаты: тот же сервер, статус active или pending_renewal,
// id не равен excludeID (используется при продлении, чтобы бронирование
// не конфликтовало само с собой). Отмененные и завершенные бронирования
// интервал не занимают.
func HasConflict(serverID string, start, end time.Time, bookings []models.Booking, excludeID string) bool {
	for _, b := range bookings {
		if b.ServerID != serverID {
			continue
		}
		if !b.Status.IsOccupying() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if Overlaps(start, end, b) {
			return true
		}
	}
	return false
}
