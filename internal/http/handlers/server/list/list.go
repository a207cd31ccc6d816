// Package list реализует HTTP-обработчик списка серверов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// Handler управляет HTTP-запросами на список серверов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка серверов.
type Service interface {
	List(ctx context.Context) ([]*models.ServerView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список серверов
// @Description Возвращает все серверы с вычисленным на момент запроса статусом.
// @Tags Servers
// @Produce  json
// @Success 200 {object} response.Response "Список серверов"
// @Router /servers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.server.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	servers, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list servers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list servers"))
		return
	}

	render.JSON(w, r, response.OKWithData(servers))
}
