package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    `json:"id"`         // Уникальный идентификатор пользователя
	Name         string    `json:"name"`       // Отображаемое имя
	Email        string    `json:"email"`      // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`          // Хэш пароля, наружу не отдается
	IsAdmin      bool      `json:"is_admin"`   // Признак администратора
	CreatedAt    time.Time `json:"created_at"` // Время регистрации
}

// Principal — аутентифицированная личность, прикрепляемая к запросу
// после проверки токена и сессии.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
