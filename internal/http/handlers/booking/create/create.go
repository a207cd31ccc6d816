// Package create реализует HTTP-обработчик создания нового бронирования.
//
// Handler принимает JSON-запрос с данными бронирования, валидирует их,
// извлекает Principal из контекста, вызывает бизнес-логику создания
// и возвращает созданное бронирование в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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

// Handler управляет HTTP-запросами на создание бронирований.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики бронирований
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания бронирования.
type Service interface {
	Create(ctx context.Context, principal models.Principal, req models.DummyBooking) (*models.Booking, error)
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
// @Summary Создать бронирование
// @Description Бронирует сервер на диапазон дат для текущего пользователя.
// @Tags Bookings
// @Accept  json
// @Produce  json
// @Param request body models.DummyBooking true "Данные нового бронирования"
// @Success 201 {object} response.Response "Созданное бронирование"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или диапазон дат"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сервер не найден"
// @Failure 409 {object} response.ErrorResponse "Даты пересекаются с существующим бронированием"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /bookings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.booking.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBooking
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	principal, ok := middlewarectx.Principal(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	booking, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		switch {
		case errors.Is(err, dates.ErrPastStartDate):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("start date cannot be in the past"))
		case errors.Is(err, dates.ErrInvalidRange):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("end date must be after start date"))
		case errors.Is(err, bookingservice.ErrPurposeRequired):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("purpose is required"))
		case errors.Is(err, bookingservice.ErrServerNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("server not found"))
		case errors.Is(err, bookingservice.ErrServerAlreadyBooked):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("server is already booked for the selected dates"))
		default:
			log.Error("failed to create booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create booking"))
		}
		return
	}

	log.Info("booking created", slog.String("id", booking.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(booking))
}
