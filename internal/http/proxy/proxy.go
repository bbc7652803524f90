// Package proxy реализует ретрансляцию запросов дашборда во внешний backend.
//
// Handler принимает любой метод на /proxy/*, достраивает путь до backend-а
// и пересылает запрос, пропуская только заголовки Authorization и
// Content-Type. Нужен, чтобы HTTPS-фронт мог ходить в HTTP-backend без
// mixed-content ошибок.
package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
)

// relayError — структура ответа при недоступности backend-а.
type relayError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler пересылает запросы во внешний backend.
type Handler struct {
	baseURL    string
	apiPrefix  string
	httpClient *http.Client
	log        *slog.Logger
}

// New создает новый Handler. baseURL — адрес backend-а, apiPrefix — его
// корневой префикс вида "/api/v1".
func New(baseURL, apiPrefix string, httpClient *http.Client, log *slog.Logger) *Handler {
	return &Handler{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiPrefix:  apiPrefix,
		httpClient: httpClient,
		log:        log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "proxy.ServeHTTP"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetPath := chi.URLParam(r, "*")
	if targetPath == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, relayError{Error: "Invalid proxy path"})
		return
	}
	// Django требует завершающий слэш
	if !strings.HasSuffix(targetPath, "/") {
		targetPath += "/"
	}

	targetURL := h.baseURL + h.apiPrefix + "/" + targetPath
	if r.URL.RawQuery != "" {
		targetURL += "?" + r.URL.RawQuery
	}

	var body io.Reader
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, relayError{Error: "Proxy request failed", Message: err.Error()})
			return
		}
		if len(data) > 0 {
			body = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, body)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, relayError{Error: "Proxy request failed", Message: err.Error()})
		return
	}

	if auth := r.Header.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	log.Info("relaying request",
		slog.String("method", r.Method),
		slog.String("target", targetURL),
	)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Error("backend unreachable", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, relayError{Error: "Proxy request failed", Message: err.Error()})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read backend response", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, relayError{Error: "Proxy request failed", Message: err.Error()})
		return
	}

	log.Info("backend responded", slog.Int("status", resp.StatusCode))
	h.writeRelayed(w, resp, data)
}

// writeRelayed возвращает ответ backend-а клиенту. JSON перекодируется,
// чтобы клиенту гарантированно уходил валидный JSON с нашим заголовком;
// остальные типы отдаются как есть с исходным Content-Type.
// Заявленный, но нечитаемый JSON наружу не выпускаем.
func (h *Handler) writeRelayed(w http.ResponseWriter, resp *http.Response, data []byte) {
	contentType := resp.Header.Get("Content-Type")

	if strings.Contains(contentType, "application/json") {
		var payload any
		if err := json.Unmarshal(data, &payload); err != nil {
			h.log.Error("backend sent malformed json", sl.Err(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(relayError{Error: "Proxy request failed", Message: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_ = json.NewEncoder(w).Encode(payload)
		return
	}

	if contentType == "" {
		contentType = "text/plain"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(data)
}
