// Package register реализует HTTP-обработчик регистрации пользователя.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
	authservice "github.com/magabrotheeeer/lab-reserve/internal/services/auth"
)

// Handler управляет HTTP-запросами на регистрацию пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, req models.DummyRegister) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает нового пользователя по имени, email и паролю.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyRegister true "Данные регистрации"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
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

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, authservice.ErrEmailTaken) {
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(user))
}
