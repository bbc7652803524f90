// Package remove реализует HTTP-обработчики удаления и архивирования тарифа.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/http/response"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
	"github.com/zhelezov/gym-dashboard/internal/services/pricing"
)

// Service описывает интерфейс бизнес-логики удаления тарифа.
type Service interface {
	Delete(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
}

// Handler управляет HTTP-запросами на удаление тарифа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pricing.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing plan id"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Error("failed to remove pricing plan", sl.Err(err), slog.String("id", id))
		status, resp := response.FromBackend(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("pricing plan removed", slog.String("id", id))
	render.JSON(w, r, response.OK())
}

// ServeArchive обрабатывает запрос на архивирование тарифа. Backend не
// поддерживает архив, поэтому клиент всегда получает 501.
func (h *Handler) ServeArchive(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pricing.archive"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing plan id"))
		return
	}

	err := h.service.Archive(r.Context(), id)
	if errors.Is(err, pricing.ErrArchiveUnsupported) {
		log.Info("archive rejected as unsupported", slog.String("id", id))
		w.WriteHeader(http.StatusNotImplemented)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	if err != nil {
		log.Error("failed to archive pricing plan", sl.Err(err), slog.String("id", id))
		status, resp := response.FromBackend(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OK())
}
