package models

import "time"

// BookingStatus статус бронирования.
type BookingStatus string

const (
	// BookingActive — действующее бронирование.
	BookingActive BookingStatus = "active"
	// BookingPendingRenewal — бронирование, ожидающее продления.
	// Для проверки конфликтов неотличимо от active.
	BookingPendingRenewal BookingStatus = "pending_renewal"
	// BookingCompleted — завершенное бронирование.
	BookingCompleted BookingStatus = "completed"
	// BookingCancelled — отмененное бронирование.
	BookingCancelled BookingStatus = "cancelled"
)

// IsOccupying сообщает, занимает ли бронирование сервер:
// только active и pending_renewal участвуют в проверке конфликтов.
func (s BookingStatus) IsOccupying() bool {
	return s == BookingActive || s == BookingPendingRenewal
}

// Booking представляет бронирование сервера пользователем.
// Даты — календарные, диапазон включительный, EndDate >= StartDate.
type Booking struct {
	ID                      string        `json:"id"`                        // Уникальный идентификатор бронирования
	ServerID                string        `json:"server_id"`                 // Идентификатор сервера
	UserID                  string        `json:"user_id"`                   // Идентификатор пользователя-владельца
	StartDate               time.Time     `json:"start_date"`                // Дата начала
	EndDate                 time.Time     `json:"end_date"`                  // Дата окончания
	Purpose                 string        `json:"purpose"`                   // Цель бронирования, обязательное поле
	Status                  BookingStatus `json:"status"`                    // Статус бронирования
	DaysBooked              int           `json:"days_booked"`               // Число дней, хранится для отображения
	RenewalNotificationSent bool          `json:"renewal_notification_sent"` // Отправлено ли уведомление о продлении
	CreatedAt               time.Time     `json:"created_at"`                // Время создания записи
}

// DummyBooking используется для приёма данных нового бронирования из JSON-запроса.
// Даты приходят строками в формате 2006-01-02 и парсятся на границе.
type DummyBooking struct {
	ServerID  string `json:"server_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Purpose   string `json:"purpose" validate:"required"`
}

// DummyExtend используется для приёма запроса на продление бронирования.
type DummyExtend struct {
	NewEndDate string `json:"new_end_date" validate:"required"`
}
