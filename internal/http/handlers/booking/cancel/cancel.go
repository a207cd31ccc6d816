// Package cancel реализует HTTP-обработчик отмены бронирования.
package cancel

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

// Handler управляет HTTP-запросами на отмену бронирований.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены бронирования.
type Service interface {
	Cancel(ctx context.Context, principal models.Principal, bookingID string) (*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить бронирование
// @Description Переводит бронирование в статус cancelled. Повторная отмена не является ошибкой.
// @Tags Bookings
// @Produce  json
// @Param id path string true "ID бронирования"
// @Success 200 {object} response.Response "Отмененное бронирование"
// @Failure 403 {object} response.ErrorResponse "Бронирование принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Router /bookings/{id}/cancel [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	bookingID := chi.URLParam(r, "id")

	principal, ok := middlewarectx.Principal(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	booking, err := h.service.Cancel(r.Context(), principal, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookingservice.ErrBookingNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("booking not found"))
		case errors.Is(err, bookingservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("booking belongs to another user"))
		default:
			log.Error("failed to cancel booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not cancel booking"))
		}
		return
	}

	log.Info("booking cancelled", slog.String("id", booking.ID))
	render.JSON(w, r, response.OKWithData(booking))
}
