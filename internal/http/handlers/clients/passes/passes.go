// Package passes реализует HTTP-обработчик списка абонементов клиента.
package passes

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/http/response"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики абонементов клиента.
type Service interface {
	Passes(ctx context.Context, clientID string) ([]models.ClientPass, error)
}

// Handler управляет HTTP-запросами на чтение абонементов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.passes"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing client id"))
		return
	}

	clientPasses, err := h.service.Passes(r.Context(), id)
	if err != nil {
		log.Error("failed to list client passes", sl.Err(err), slog.String("client_id", id))
		status, resp := response.FromBackend(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(clientPasses))
}
