// Package toggleadmin реализует HTTP-обработчик смены признака администратора.
package toggleadmin

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

// Handler управляет HTTP-запросами на смену признака администратора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики смены признака администратора.
type Service interface {
	ToggleAdmin(ctx context.Context, principal models.Principal, userID string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Смена признака администратора
// @Description Переключает признак администратора у пользователя. Нельзя применить к собственной учетной записи.
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response "Обновленный пользователь"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Нельзя изменить собственную учетную запись"
// @Router /users/{id}/toggle-admin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.toggleadmin"
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

	user, err := h.service.ToggleAdmin(r.Context(), principal, userID)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
		case errors.Is(err, userservice.ErrSelfAction):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("cannot change your own admin flag"))
		case errors.Is(err, userservice.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to toggle admin flag", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update user"))
		}
		return
	}

	log.Info("admin flag toggled",
		slog.String("user_id", user.ID),
		slog.Bool("is_admin", user.IsAdmin))
	render.JSON(w, r, response.OKWithData(user))
}
