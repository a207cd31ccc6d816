// Package me реализует HTTP-обработчик текущего пользователя.
package me

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
	"github.com/magabrotheeeer/lab-reserve/internal/storage"
)

// Handler управляет HTTP-запросами на данные текущего пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики текущего пользователя.
type Service interface {
	Me(ctx context.Context, principal models.Principal) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает данные пользователя, которому принадлежит токен.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
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

	user, err := h.service.Me(r.Context(), principal)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user no longer exists"))
			return
		}
		log.Error("failed to load current user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load user"))
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
