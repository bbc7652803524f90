// Package current реализует HTTP-обработчик состояния сессии.
//
// Возвращает текущего пользователя, брендинг его клуба и состояние
// авторизации одним ответом, чтобы фронт мог отрисовать дашборд без
// дополнительных запросов.
package current

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/auth"
	"github.com/zhelezov/gym-dashboard/internal/http/response"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

// Service описывает интерфейс менеджера авторизации для чтения сессии.
type Service interface {
	CurrentUser() *models.User
	Branding() *models.Branding
	State() auth.State
}

// Handler управляет HTTP-запросами на чтение сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.current"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user := h.service.CurrentUser()
	if user == nil {
		log.Info("no active session")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authenticated"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":     user,
		"branding": h.service.Branding(),
		"state":    h.service.State().String(),
	}))
}
