// Package extend реализует HTTP-обработчик продления бронирования.
package extend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/dates"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	bookingservice "github.com/magabrotheeeer/lab-reserve/internal/services/booking"
)

// Handler управляет HTTP-запросами на продление бронирований.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики продления бронирования.
type Service interface {
	Extend(ctx context.Context, principal models.Principal, bookingID string, req models.DummyExtend) (*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Продлить бронирование
// @Description Заменяет дату окончания бронирования, сбрасывает флаг уведомления и возвращает статус active.
// @Tags Bookings
// @Accept  json
// @Produce  json
// @Param id path string true "ID бронирования"
// @Param request body models.DummyExtend true "Новая дата окончания"
// @Success 200 {object} response.Response "Обновленное бронирование"
// @Failure 400 {object} response.ErrorResponse "Новая дата не позже текущей"
// @Failure 403 {object} response.ErrorResponse "Бронирование принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Failure 409 {object} response.ErrorResponse "Продление пересекается с другим бронированием"
// @Router /bookings/{id}/extend [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.extend"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	bookingID := chi.URLParam(r, "id")

	var req models.DummyExtend
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	principal, ok := middlewarectx.Principal(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	booking, err := h.service.Extend(r.Context(), principal, bookingID, req)
	if err != nil {
		switch {
		case errors.Is(err, bookingservice.ErrBookingNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("booking not found"))
		case errors.Is(err, bookingservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("booking belongs to another user"))
		case errors.Is(err, dates.ErrInvalidRange):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("new end date must be after the current end date"))
		case errors.Is(err, bookingservice.ErrServerAlreadyBooked):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("server is already booked for the selected dates"))
		default:
			log.Error("failed to extend booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not extend booking"))
		}
		return
	}

	log.Info("booking extended", slog.String("id", booking.ID), slog.Int("days_booked", booking.DaysBooked))
	render.JSON(w, r, response.OKWithData(booking))
}
