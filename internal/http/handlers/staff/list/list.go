// Package list реализует HTTP-обработчик списка сотрудников зала.
//
// Поддерживает фильтрацию по роли и статусу через query-параметры
// role и status.
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

// Service описывает интерфейс бизнес-логики списка сотрудников.
type Service interface {
	List(ctx context.Context, filter models.StaffFilter) ([]models.StaffMember, error)
}

// Handler управляет HTTP-запросами на чтение списка сотрудников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.staff.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.StaffFilter{
		Role:   models.StaffRole(r.URL.Query().Get("role")),
		Status: models.StaffStatus(r.URL.Query().Get("status")),
	}

	staff, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list staff", sl.Err(err))
		status, resp := response.FromBackend(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("staff listed", slog.Int("count", len(staff)))
	render.JSON(w, r, response.OKWithData(staff))
}
