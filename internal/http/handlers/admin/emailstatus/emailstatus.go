// Package emailstatus реализует HTTP-обработчик статуса почтовой доставки (админ).
package emailstatus

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lab-reserve/internal/http/response"
)

// Handler управляет HTTP-запросами на статус почтовой доставки.
type Handler struct {
	log        *slog.Logger
	configured bool
}

// New создает новый Handler. configured — заполнены ли SMTP-настройки.
func New(log *slog.Logger, configured bool) *Handler {
	return &Handler{log: log, configured: configured}
}

type emailStatus struct {
	Configured bool   `json:"configured"`
	Mode       string `json:"mode"`
}

// ServeHTTP godoc
// @Summary Статус почтовой доставки
// @Description Сообщает, настроен ли SMTP. Без настроек дайджесты только логируются.
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Статус доставки"
// @Router /admin/email/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := emailStatus{Configured: h.configured, Mode: "smtp"}
	if !h.configured {
		status.Mode = "log-only"
	}
	render.JSON(w, r, response.OKWithData(status))
}
