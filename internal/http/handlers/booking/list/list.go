// Package list реализует HTTP-обработчик списка всех бронирований (админ).
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
	bookingservice "github.com/magabrotheeeer/lab-reserve/internal/services/booking"
)

// Handler управляет HTTP-запросами на список всех бронирований.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка бронирований.
type Service interface {
	List(ctx context.Context, principal models.Principal) ([]*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список всех бронирований
// @Description Возвращает все бронирования, новые первыми. Только для администратора.
// @Tags Bookings
// @Produce  json
// @Success 200 {object} response.Response "Список бронирований"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /bookings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.list"
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

	bookings, err := h.service.List(r.Context(), principal)
	if err != nil {
		if errors.Is(err, bookingservice.ErrForbidden) {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
			return
		}
		log.Error("failed to list bookings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bookings"))
		return
	}

	render.JSON(w, r, response.OKWithData(bookings))
}
