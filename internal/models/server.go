// Package models содержит доменные структуры лабораторного сервиса бронирования:
// серверы, бронирования, пользователи и сессии, а также вспомогательные типы
// для работы с данными из внешних источников (например, JSON-запросы).
package models

// ServerStatus статус сервера. В хранилище допустимы только административные
// значения (available, maintenance, offline); значение booked существует
// только как вычисляемый статус, выводимый из активных бронирований.
type ServerStatus string

const (
	// ServerAvailable — сервер свободен для бронирования.
	ServerAvailable ServerStatus = "available"
	// ServerBooked — вычисляемый статус: на сервере есть активное бронирование.
	ServerBooked ServerStatus = "booked"
	// ServerMaintenance — сервер выведен на обслуживание оператором.
	ServerMaintenance ServerStatus = "maintenance"
	// ServerOffline — сервер отключен оператором.
	ServerOffline ServerStatus = "offline"
)

// IsAdministrative сообщает, допустимо ли значение статуса для хранения
// в таблице серверов.
func (s ServerStatus) IsAdministrative() bool {
	return s == ServerAvailable || s == ServerMaintenance || s == ServerOffline
}

// ServerSpecs описывает аппаратную конфигурацию сервера.
// Все поля — свободный текст, GPU может отсутствовать.
type ServerSpecs struct {
	CPU     string `json:"cpu"`
	Memory  string `json:"memory"`
	Storage string `json:"storage"`
	GPU     string `json:"gpu,omitempty"`
}

// Server представляет физический сервер лаборатории.
type Server struct {
	ID          string       `json:"id"`             // Уникальный идентификатор сервера
	Name        string       `json:"name"`           // Имя сервера
	Specs       ServerSpecs  `json:"specifications"` // Аппаратная конфигурация
	Location    string       `json:"location"`       // Расположение (стойка, зал)
	AdminStatus ServerStatus `json:"admin_status"`   // Административный статус, задается оператором
}

// ServerView — сервер с вычисленным статусом и текущим бронированием,
// как он отдается на чтение.
type ServerView struct {
	Server
	Status         ServerStatus `json:"status"`                    // Вычисленный статус (available/booked/maintenance/offline)
	CurrentBooking *Booking     `json:"current_booking,omitempty"` // Бронирование, покрывающее текущий момент, или nil
}

// DummyServer используется для приёма данных сервера из JSON-запроса.
type DummyServer struct {
	Name     string      `json:"name" validate:"required"`
	Specs    ServerSpecs `json:"specifications" validate:"required"`
	Location string      `json:"location" validate:"required"`
	Status   string      `json:"status,omitempty" validate:"omitempty,oneof=available maintenance offline"`
}

// DummyServerUpdate используется для частичного обновления сервера админом.
// Пустые поля не изменяются.
type DummyServerUpdate struct {
	Name     string       `json:"name,omitempty"`
	Specs    *ServerSpecs `json:"specifications,omitempty"`
	Location string       `json:"location,omitempty"`
	Status   string       `json:"status,omitempty" validate:"omitempty,oneof=available maintenance offline"`
}
