// Package read реализует HTTP-обработчик профиля пользователя.
package read

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

// Handler управляет HTTP-запросами на профиль пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профиля пользователя.
type Service interface {
	Get(ctx context.Context, principal models.Principal, userID string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает профиль пользователя. Доступно самому пользователю или администратору.
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"
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

	user, err := h.service.Get(r.Context(), principal, userID)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		case errors.Is(err, userservice.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to load user profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not load user"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
