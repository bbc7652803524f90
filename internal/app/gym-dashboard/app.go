// Package gymdashboard собирает приложение дашборда: redis-хранилище
// сессии, менеджер авторизации, кеш запросов, ресурсные сервисы и
// HTTP-сервер.
package gymdashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"

	"github.com/zhelezov/gym-dashboard/internal/api"
	"github.com/zhelezov/gym-dashboard/internal/auth"
	"github.com/zhelezov/gym-dashboard/internal/config"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
	"github.com/zhelezov/gym-dashboard/internal/querycache"
	clientsservice "github.com/zhelezov/gym-dashboard/internal/services/clients"
	pricingservice "github.com/zhelezov/gym-dashboard/internal/services/pricing"
	scheduleservice "github.com/zhelezov/gym-dashboard/internal/services/schedule"
	staffservice "github.com/zhelezov/gym-dashboard/internal/services/staff"
	"github.com/zhelezov/gym-dashboard/internal/sessionstore"
)

// App владеет HTTP-сервером и зависимостями процесса.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	store   *sessionstore.Store
	session *auth.SessionManager
}

// New инициализирует приложение: поднимает redis-хранилище, восстанавливает
// сессию процесса и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := sessionstore.New(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	backendURL := strings.TrimSuffix(cfg.BackendAPI.BaseURL, "/") + cfg.BackendAPI.APIPrefix

	session := auth.NewSessionManager(backendURL, cfg.BackendAPI.Timeout, store, logger)
	if err := session.Init(ctx); err != nil {
		// холодный старт без сессии — штатная ситуация
		logger.Warn("session restore failed, starting unauthenticated", sl.Err(err))
	}

	apiClient := api.New(backendURL, cfg.BackendAPI.Timeout, session, logger)
	cache := querycache.New(logger)

	staff := staffservice.New(apiClient, cache, logger)
	clients := clientsservice.New(apiClient, cache, logger)
	pricing := pricingservice.New(apiClient, cache, logger)
	schedule := scheduleservice.New(apiClient, cache, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, session, staff, clients, pricing, schedule)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		store:   store,
		session: session,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или ошибки.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.store.Db.Close(); closeErr != nil {
			a.logger.Error("failed to close redis connection", sl.Err(closeErr))
		}
		return err
	}
}
