// Package remove реализует HTTP-обработчик удаления пользователя (админ).
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	userservice "github.com/magabrotheeeer/lab-reserve/internal/services/user"
)

// Handler управляет HTTP-запросами на удаление пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления пользователя.
type Service interface {
	Delete(ctx context.Context, principal models.Principal, userID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление пользователя
// @Description Удаляет пользователя. Администратор не может удалить собственную учетную запись.
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response "Пользователь удален"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Нельзя удалить собственную учетную запись"
// @Router /users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.Principal(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	if err := h.service.Delete(r.Context(), principal, userID); err != nil {
		switch {
		case errors.Is(err, userservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
		case errors.Is(err, userservice.ErrSelfAction):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("cannot delete your own account"))
		case errors.Is(err, userservice.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to delete user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete user"))
		}
		return
	}

	log.Info("user deleted", slog.String("user_id", userID))
	render.JSON(w, r, response.OK())
}
