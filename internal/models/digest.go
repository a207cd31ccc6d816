package models

import "time"

// BookingWithServer — бронирование вместе с именем сервера,
// как его отдают запросы дайджеста.
type BookingWithServer struct {
	Booking
	ServerName string
}

// BookingSummary — строка еженедельного дайджеста: одно занимающее
// бронирование пользователя с числом оставшихся дней.
type BookingSummary struct {
	ServerName    string        `json:"server_name"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	DaysRemaining int           `json:"days_remaining"`
	Purpose       string        `json:"purpose"`
	Status        BookingStatus `json:"status"`
}

// DigestJob — задание для воркера рассылки: дайджест одного пользователя,
// публикуется планировщиком в очередь.
type DigestJob struct {
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	ActiveBookings   []BookingSummary `json:"active_bookings"`
	ExpiringBookings []BookingSummary `json:"expiring_bookings"`
	ServersAvailable int              `json:"servers_available"`
}
