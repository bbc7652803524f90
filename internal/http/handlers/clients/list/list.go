// Package list реализует HTTP-обработчик списка клиентов зала.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/http/response"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики списка клиентов.
type Service interface {
	List(ctx context.Context) ([]models.Client, error)
}

// Handler управляет HTTP-запросами на чтение списка клиентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	clients, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		status, resp := response.FromBackend(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("clients listed", slog.Int("count", len(clients)))
	render.JSON(w, r, response.OKWithData(clients))
}
