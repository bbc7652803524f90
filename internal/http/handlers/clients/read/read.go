// Package read реализует HTTP-обработчик чтения карточки клиента.
//
// Карточка собирается вместе с абонементами клиента, чтобы фронт получил
// её одним запросом.
package read

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

// Service описывает интерфейс бизнес-логики чтения клиента.
type Service interface {
	GetWithPasses(ctx context.Context, clientID string) (*models.ClientWithPasses, error)
}

// Handler управляет HTTP-запросами на чтение клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.read"
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

	client, err := h.service.GetWithPasses(r.Context(), id)
	if err != nil {
		log.Error("failed to read client", sl.Err(err), slog.String("id", id))
		status, resp := response.FromBackend(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(client))
}
