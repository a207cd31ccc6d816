// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов, несущих
// идентификатор пользователя, email и признак администратора.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создает токен для пользователя с указанным id, email и признаком админа.
	GenerateToken(userID, email string, isAdmin bool) (string, error)
	// ParseToken разбирает токен и возвращает *CustomClaims, если он корректен.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// TokenTTL возвращает срок жизни выдаваемых токенов. Используется для
// вычисления срока сессии при входе.
func (j *MakerImpl) TokenTTL() time.Duration {
	return j.tokenTTL
}
