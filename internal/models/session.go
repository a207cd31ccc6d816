package models

import "time"

// Session представляет сохранненую в хранилище сессию пользователя.
// Запись удаляется при logout, что позволяет отзывать токены на сервере.
type Session struct {
	Token     string    // JWT, выданный при входе
	UserID    string    // Владелец сессии
	ExpiresAt time.Time // Срок действия сессии
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
