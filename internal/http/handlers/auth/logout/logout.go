// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
)

// Handler управляет HTTP-запросами на выход пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Удаляет текущую сессию. Повторный выход не считается ошибкой.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := middlewarectx.Token(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		log.Error("failed to logout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not logout"))
		return
	}

	render.JSON(w, r, response.OK())
}
