package services

import (
	"time"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// ResolveStatus выводит эффективный статус сервера из административного
// статуса и бронирований. Правила, в порядке приоритета:
//
//  1. maintenance и offline возвращаются безусловно — административные
//     состояния сильнее бронирований;
//  2. если какое-либо занимающее бронирование сервера покрывает now
//     (start <= now <= end), статус booked;
//  3. иначе available.
//
// Функция чистая: не изменяет аргументы и не обращается к хранилищу.
// Сервер, у которого остались только прошедшие или отмененные
// бронирования, считается available.
func ResolveStatus(srv models.Server, bookings []models.Booking, now time.Time) models.ServerStatus {
	if srv.AdminStatus == models.ServerMaintenance || srv.AdminStatus == models.ServerOffline {
		return srv.AdminStatus
	}
	if CurrentBooking(srv.ID, bookings, now) != nil {
		return models.ServerBooked
	}
	return models.ServerAvailable
}

// CurrentBooking возвращает занимающее бронирование сервера serverID,
// интервал которого покрывает now, или nil.
func CurrentBooking(serverID string, bookings []models.Booking, now time.Time) *models.Booking {
	for i := range bookings {
		b := &bookings[i]
		if b.ServerID != serverID || !b.Status.IsOccupying() {
			continue
		}
		if !b.StartDate.After(now) && !b.EndDate.Before(now) {
			return b
		}
	}
	return nil
}
