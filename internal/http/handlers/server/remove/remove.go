// Package remove реализует HTTP-обработчик удаления сервера (админ).
package remove

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
	serverservice "github.com/magabrotheeeer/lab-reserve/internal/services/server"
)

// Handler управляет HTTP-запросами на удаление сервера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления сервера.
type Service interface {
	Delete(ctx context.Context, principal models.Principal, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление сервера
// @Description Удаляет сервер без действующих бронирований. Только для администратора.
// @Tags Servers
// @Produce  json
// @Param id path string true "ID сервера"
// @Success 200 {object} response.Response "Сервер удален"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Сервер не найден"
// @Failure 409 {object} response.ErrorResponse "У сервера есть действующие бронирования"
// @Router /servers/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.server.remove"
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

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		switch {
		case errors.Is(err, serverservice.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
		case errors.Is(err, serverservice.ErrServerNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("server not found"))
		case errors.Is(err, serverservice.ErrServerHasBookings):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("server has occupying bookings"))
		default:
			log.Error("failed to delete server", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete server"))
		}
		return
	}

	log.Info("server deleted", slog.String("server_id", id))
	render.JSON(w, r, response.OK())
}
