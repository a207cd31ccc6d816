// Package create реализует HTTP-обработчик добавления сервера (админ).
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	serverservice "github.com/magabrotheeeer/lab-reserve/internal/services/server"
)

// Handler управляет HTTP-запросами на добавление сервера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики добавления сервера.
type Service interface {
	Create(ctx context.Context, principal models.Principal, req models.DummyServer) (*models.Server, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Добавление сервера
// @Description Создает новый сервер инвентаря. Только для администратора.
// @Tags Servers
// @Accept  json
// @Produce  json
// @Param request body models.DummyServer true "Данные сервера"
// @Success 201 {object} response.Response "Сервер создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /servers [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.server.create"
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

	var req models.DummyServer
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := validator.New().Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		errors.As(err, &validateErr)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	server, err := h.service.Create(r.Context(), principal, req)
	if err != nil {
		if errors.Is(err, serverservice.ErrForbidden) {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
			return
		}
		log.Error("failed to create server", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create server"))
		return
	}

	log.Info("server created", slog.String("server_id", server.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(server))
}
