// Package refresh реализует HTTP-обработчик обновления access-токена.
package refresh

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/http/response"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
)

// Service описывает интерфейс менеджера авторизации для обновления токена.
type Service interface {
	Refresh(ctx context.Context) (string, error)
}

// Handler управляет HTTP-запросами на обновление токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP обновляет access-токен по refresh-токену. Любой отказ
// означает, что сессия уже разобрана менеджером, и клиенту нужно
// логиниться заново.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.refresh"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, err := h.service.Refresh(r.Context())
	if err != nil {
		log.Error("token refresh failed, session torn down", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("session expired, please log in again"))
		return
	}

	log.Info("access token refreshed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token": token,
	}))
}
