// Package list реализует HTTP-обработчик расписания занятий.
//
// Query-параметр week (дата понедельника в формате 2006-01-02) ограничивает
// выборку одной неделей; без него возвращается всё расписание.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/http/response"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики расписания.
type Service interface {
	List(ctx context.Context) ([]models.ClassSession, error)
	ListWeek(ctx context.Context, weekStart time.Time) ([]models.ClassSession, error)
}

// Handler управляет HTTP-запросами на чтение расписания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var sessions []models.ClassSession
	var err error

	if week := r.URL.Query().Get("week"); week != "" {
		weekStart, parseErr := time.Parse("2006-01-02", week)
		if parseErr != nil {
			log.Error("invalid week parameter", sl.Err(parseErr))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("week must be a date in format 2006-01-02"))
			return
		}
		sessions, err = h.service.ListWeek(r.Context(), weekStart)
	} else {
		sessions, err = h.service.List(r.Context())
	}

	if err != nil {
		log.Error("failed to list sessions", sl.Err(err))
		status, resp := response.FromBackend(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("sessions listed", slog.Int("count", len(sessions)))
	render.JSON(w, r, response.OKWithData(sessions))
}
