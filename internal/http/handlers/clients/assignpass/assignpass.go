// Package assignpass реализует HTTP-обработчик выдачи абонемента клиенту.
package assignpass

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/zhelezov/gym-dashboard/internal/http/response"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики выдачи абонемента.
type Service interface {
	AssignPass(ctx context.Context, req models.DummyAssignPass) error
}

// Handler управляет HTTP-запросами на выдачу абонемента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.assignpass"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAssignPass
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.AssignPass(r.Context(), req); err != nil {
		log.Error("failed to assign pass", sl.Err(err))
		status, resp := response.FromBackend(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("pass assigned", slog.String("client_id", req.ClientID), slog.String("pricing_option_id", req.PricingOptionID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OK())
}
