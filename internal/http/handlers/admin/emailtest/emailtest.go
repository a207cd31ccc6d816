// Package emailtest реализует HTTP-обработчик проверочного письма (админ).
package emailtest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	senderservice "github.com/magabrotheeeer/lab-reserve/internal/services/sender"
)

// Handler управляет HTTP-запросами на отправку проверочного письма.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс отправки проверочного письма.
type Service interface {
	SendTestEmail(to string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

type testEmailResult struct {
	Message string `json:"message"`
}

// ServeHTTP godoc
// @Summary Проверочное письмо
// @Description Отправляет проверочное письмо на адрес администратора для проверки SMTP-настроек.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Письмо отправлено"
// @Failure 400 {object} response.ErrorResponse "SMTP не настроен"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /admin/email/test [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.emailtest"
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

	if err := h.service.SendTestEmail(principal.Email); err != nil {
		if errors.Is(err, senderservice.ErrTransportNotConfigured) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("smtp is not configured, set SMTP_HOST, SMTP_USER and SMTP_PASS"))
			return
		}
		log.Error("failed to send test email", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send test email"))
		return
	}

	log.Info("test email sent", slog.String("to", principal.Email))
	render.JSON(w, r, response.OKWithData(testEmailResult{
		Message: "test email sent to " + principal.Email,
	}))
}
