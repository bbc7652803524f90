// Package logout реализует HTTP-обработчик выхода из сессии.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/http/response"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
)

// Service описывает интерфейс менеджера авторизации для выхода.
type Service interface {
	Logout(ctx context.Context) error
}

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP завершает сессию. Выход всегда успешен: локальное состояние
// сбрасывается даже при недоступном хранилище.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Logout(r.Context()); err != nil {
		log.Error("session store cleanup failed", sl.Err(err))
	}

	log.Info("session cleared")
	render.JSON(w, r, response.OK())
}
