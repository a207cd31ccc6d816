// Package middlewarectx содержит HTTP middleware сервиса бронирования.
//
// AuthMiddleware проверяет JWT из заголовка Authorization и живую сессию
// в хранилище, и в случае успеха добавляет Principal в контекст запроса
// для дальнейшего использования в обработчиках. AdminMiddleware требует
// признак администратора у уже аутентифицированного Principal.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// PrincipalKey — ключ аутентифицированного Principal в контексте.
	PrincipalKey Key = "principal"
	// TokenKey — ключ исходного токена в контексте (нужен для logout).
	TokenKey Key = "token"
)

// Service описывает интерфейс сервиса для валидации токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.Principal, error)
}

// Principal извлекает Principal из контекста запроса.
func Principal(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(models.Principal)
	return principal, ok
}

// Token извлекает исходный токен запроса из контекста.
func Token(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

// AuthMiddleware возвращает HTTP middleware, который проверяет JWT
// в заголовке Authorization вместе с сессией в хранилище.
//
// Если токен валиден, добавляет Principal и токен в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func AuthMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			principal, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), PrincipalKey, *principal)
			ctx = context.WithValue(ctx, TokenKey, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware пропускает только администраторов. Должен стоять
// после AuthMiddleware.
func AdminMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := Principal(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if !principal.IsAdmin {
				log.Warn("admin access denied", slog.String("user_id", principal.UserID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
