// Package list реализует HTTP-обработчик списка пользователей (админ).
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	userservice "github.com/magabrotheeeer/lab-reserve/internal/services/user"
)

// Handler управляет HTTP-запросами на список пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	List(ctx context.Context, principal models.Principal) ([]*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех зарегистрированных пользователей. Только для администратора.
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"
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

	users, err := h.service.List(r.Context(), principal)
	if err != nil {
		if errors.Is(err, userservice.ErrForbidden) {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
			return
		}
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	render.JSON(w, r, response.OKWithData(users))
}
