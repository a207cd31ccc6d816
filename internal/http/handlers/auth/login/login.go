// Package login реализует HTTP-обработчик входа пользователя.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	authservice "github.com/magabrotheeeer/lab-reserve/internal/services/auth"
)

// Handler управляет HTTP-запросами на вход пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, req models.DummyLogin) (string, time.Time, *models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

type loginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль, возвращает JWT-токен сессии.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLogin true "Данные входа"
// @Success 200 {object} response.Response "Токен и данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
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

	token, expiresAt, user, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid email or password"))
			return
		}
		log.Error("failed to login user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not login"))
		return
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	render.JSON(w, r, response.OKWithData(loginResult{Token: token, ExpiresAt: expiresAt, User: user}))
}
