// Package listuser реализует HTTP-обработчик списка бронирований пользователя.
package listuser

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
	bookingservice "github.com/magabrotheeeer/lab-reserve/internal/services/booking"
)

// Handler управляет HTTP-запросами на список бронирований пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка бронирований пользователя.
type Service interface {
	ListForUser(ctx context.Context, principal models.Principal, userID string) ([]*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список бронирований пользователя
// @Description Возвращает бронирования указанного пользователя. Доступно владельцу или администратору.
// @Tags Bookings
// @Produce  json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response "Список бронирований"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /users/{id}/bookings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.listuser"
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

	bookings, err := h.service.ListForUser(r.Context(), principal, userID)
	if err != nil {
		if errors.Is(err, bookingservice.ErrForbidden) {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
			return
		}
		log.Error("failed to list user bookings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bookings"))
		return
	}

	render.JSON(w, r, response.OKWithData(bookings))
}
