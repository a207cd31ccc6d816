// Package update реализует HTTP-обработчик изменения сервера (админ).
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	serverservice "github.com/magabrotheeeer/lab-reserve/internal/services/server"
)

// Handler управляет HTTP-запросами на изменение сервера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики изменения сервера.
type Service interface {
	Update(ctx context.Context, principal models.Principal, id string, req models.DummyServerUpdate) (*models.Server, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменение сервера
// @Description Частично обновляет поля сервера. Только для администратора.
// @Tags Servers
// @Accept  json
// @Produce  json
// @Param id path string true "ID сервера"
// @Param request body models.DummyServerUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновленный сервер"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Сервер не найден"
// @Router /servers/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.server.update"
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

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing server id"))
		return
	}

	var req models.DummyServerUpdate
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

	server, err := h.service.Update(r.Context(), principal, id, req)
	if err != nil {
		switch {
		case errors.Is(err, serverservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
		case errors.Is(err, serverservice.ErrServerNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("server not found"))
		default:
			log.Error("failed to update server", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update server"))
		}
		return
	}

	log.Info("server updated", slog.String("server_id", server.ID))
	render.JSON(w, r, response.OKWithData(server))
}
