// Package digestrun реализует HTTP-обработчик ручного запуска дайджеста (админ).
package digestrun

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	digestservice "github.com/magabrotheeeer/lab-reserve/internal/services/digest"
)

// Handler управляет HTTP-запросами на ручной запуск дайджеста.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики прогона дайджеста.
type Service interface {
	Run(ctx context.Context) (digestservice.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Ручной запуск дайджеста
// @Description Выполняет один прогон дайджеста вне расписания. Только для администратора.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Итог прогона"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /admin/digest/run [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.digestrun"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.service.Run(r.Context())
	if err != nil {
		log.Error("digest run failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("digest run failed"))
		return
	}

	log.Info("digest run finished",
		slog.Int("published", result.Published),
		slog.Int("errors", result.Errors),
		slog.Int("renewals_marked", result.Renewals))
	render.JSON(w, r, response.OKWithData(result))
}
