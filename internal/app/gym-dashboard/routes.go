package gymdashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhelezov/gym-dashboard/internal/auth"
	"github.com/zhelezov/gym-dashboard/internal/config"
	clientsassignpass "github.com/zhelezov/gym-dashboard/internal/http/handlers/clients/assignpass"
	clientslist "github.com/zhelezov/gym-dashboard/internal/http/handlers/clients/list"
	clientspasses "github.com/zhelezov/gym-dashboard/internal/http/handlers/clients/passes"
	clientsread "github.com/zhelezov/gym-dashboard/internal/http/handlers/clients/read"
	pricingcreate "github.com/zhelezov/gym-dashboard/internal/http/handlers/pricing/create"
	pricinglist "github.com/zhelezov/gym-dashboard/internal/http/handlers/pricing/list"
	pricingread "github.com/zhelezov/gym-dashboard/internal/http/handlers/pricing/read"
	pricingremove "github.com/zhelezov/gym-dashboard/internal/http/handlers/pricing/remove"
	pricingupdate "github.com/zhelezov/gym-dashboard/internal/http/handlers/pricing/update"
	schedulecreate "github.com/zhelezov/gym-dashboard/internal/http/handlers/schedule/create"
	schedulelist "github.com/zhelezov/gym-dashboard/internal/http/handlers/schedule/list"
	scheduleread "github.com/zhelezov/gym-dashboard/internal/http/handlers/schedule/read"
	scheduleremove "github.com/zhelezov/gym-dashboard/internal/http/handlers/schedule/remove"
	scheduleupdate "github.com/zhelezov/gym-dashboard/internal/http/handlers/schedule/update"
	"github.com/zhelezov/gym-dashboard/internal/http/handlers/session/current"
	"github.com/zhelezov/gym-dashboard/internal/http/handlers/session/login"
	"github.com/zhelezov/gym-dashboard/internal/http/handlers/session/logout"
	"github.com/zhelezov/gym-dashboard/internal/http/handlers/session/refresh"
	staffcreate "github.com/zhelezov/gym-dashboard/internal/http/handlers/staff/create"
	stafflist "github.com/zhelezov/gym-dashboard/internal/http/handlers/staff/list"
	staffread "github.com/zhelezov/gym-dashboard/internal/http/handlers/staff/read"
	staffremove "github.com/zhelezov/gym-dashboard/internal/http/handlers/staff/remove"
	staffupdate "github.com/zhelezov/gym-dashboard/internal/http/handlers/staff/update"
	"github.com/zhelezov/gym-dashboard/internal/http/middlewarectx"
	"github.com/zhelezov/gym-dashboard/internal/http/proxy"
	clientsservice "github.com/zhelezov/gym-dashboard/internal/services/clients"
	pricingservice "github.com/zhelezov/gym-dashboard/internal/services/pricing"
	scheduleservice "github.com/zhelezov/gym-dashboard/internal/services/schedule"
	staffservice "github.com/zhelezov/gym-dashboard/internal/services/staff"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	session *auth.SessionManager,
	staff *staffservice.Service,
	clients *clientsservice.Service,
	pricing *pricingservice.Service,
	schedule *scheduleservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Сессия процесса
	r.Route("/session", func(r chi.Router) {
		r.Post("/login", login.New(logger, session).ServeHTTP)
		r.Post("/logout", logout.New(logger, session).ServeHTTP)
		r.Post("/refresh", refresh.New(logger, session).ServeHTTP)
		r.Get("/", current.New(logger, session).ServeHTTP)
	})

	// Общий лимитер на ретрансляцию и ресурсные маршруты
	limit := middlewarectx.RateLimitMiddleware(logger, 10, 30)

	// Ретрансляция во внешний backend, любые методы
	relay := proxy.New(cfg.BackendAPI.BaseURL, cfg.BackendAPI.APIPrefix,
		&http.Client{Timeout: cfg.BackendAPI.Timeout}, logger)
	r.With(limit).Handle("/proxy/*", relay)

	// Ресурсы дашборда доступны только при активной сессии
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RequireSession(session, logger))
		r.Use(limit)

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", stafflist.New(logger, staff).ServeHTTP)
			r.Post("/", staffcreate.New(logger, staff).ServeHTTP)
			r.Get("/{id}", staffread.New(logger, staff).ServeHTTP)
			r.Patch("/{id}", staffupdate.New(logger, staff).ServeHTTP)
			r.Delete("/{id}", staffremove.New(logger, staff).ServeHTTP)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clientslist.New(logger, clients).ServeHTTP)
			r.Get("/{id}", clientsread.New(logger, clients).ServeHTTP)
			r.Get("/{id}/passes", clientspasses.New(logger, clients).ServeHTTP)
			r.Post("/passes", clientsassignpass.New(logger, clients).ServeHTTP)
		})

		r.Route("/pricing", func(r chi.Router) {
			pricingRemove := pricingremove.New(logger, pricing)
			r.Get("/", pricinglist.New(logger, pricing).ServeHTTP)
			r.Post("/", pricingcreate.New(logger, pricing).ServeHTTP)
			r.Get("/{id}", pricingread.New(logger, pricing).ServeHTTP)
			r.Patch("/{id}", pricingupdate.New(logger, pricing).ServeHTTP)
			r.Delete("/{id}", pricingRemove.ServeHTTP)
			r.Post("/{id}/archive", pricingRemove.ServeArchive)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", schedulelist.New(logger, schedule).ServeHTTP)
			r.Post("/", schedulecreate.New(logger, schedule).ServeHTTP)
			r.Get("/{id}", scheduleread.New(logger, schedule).ServeHTTP)
			r.Patch("/{id}", scheduleupdate.New(logger, schedule).ServeHTTP)
			r.Delete("/{id}", scheduleremove.New(logger, schedule).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
