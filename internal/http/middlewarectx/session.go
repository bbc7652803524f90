// Package middlewarectx содержит HTTP middleware дашборда.
//
// RequireSession закрывает ресурсные маршруты: пока процесс не залогинен
// во внешний backend, обработчики данных недоступны и возвращают 401.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/http/response"
)

// Session отдаёт состояние авторизационной сессии процесса.
type Session interface {
	IsAuthenticated() bool
}

// RequireSession возвращает middleware, пропускающий запрос только при
// наличии активной сессии.
func RequireSession(session Session, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSession"

			if !session.IsAuthenticated() {
				log.Error("request rejected: no active session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("not authenticated"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
