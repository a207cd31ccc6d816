// Package read реализует HTTP-обработчик карточки сервера.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	serverservice "github.com/magabrotheeeer/lab-reserve/internal/services/server"
)

// Handler управляет HTTP-запросами на карточку сервера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики карточки сервера.
type Service interface {
	Read(ctx context.Context, id string) (*models.ServerView, []*models.Booking, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

type readResult struct {
	Server  *models.ServerView `json:"server"`
	History []*models.Booking  `json:"history"`
}

// ServeHTTP godoc
// @Summary Карточка сервера
// @Description Возвращает сервер с вычисленным статусом и историей его бронирований.
// @Tags Servers
// @Produce  json
// @Param id path string true "ID сервера"
// @Success 200 {object} response.Response "Сервер и история бронирований"
// @Failure 404 {object} response.ErrorResponse "Сервер не найден"
// @Router /servers/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.server.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing server id"))
		return
	}

	view, history, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, serverservice.ErrServerNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("server not found"))
			return
		}
		log.Error("failed to read server", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read server"))
		return
	}

	render.JSON(w, r, response.OKWithData(readResult{Server: view, History: history}))
}
