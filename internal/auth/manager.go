// Package auth реализует менеджер авторизационной сессии дашборда.
//
// Менеджер владеет единственной сессией процесса: вход, выход, обновление
// access-токена и восстановление сессии из хранилища при старте. Все
// остальные компоненты читают состояние только через его методы.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zhelezov/gym-dashboard/internal/api"
	"github.com/zhelezov/gym-dashboard/internal/lib/sl"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

// State состояние сессии.
type State int

const (
	// StateUnauthenticated сессии нет.
	StateUnauthenticated State = iota
	// StateAuthenticating выполняется вход.
	StateAuthenticating
	// StateAuthenticated сессия установлена.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

const (
	loginPath   = "/users/auth/login/"
	refreshPath = "/users/auth/refresh/"
)

// Store описывает контракт хранилища сессии.
type Store interface {
	// Save записывает снимок сессии целиком.
	Save(ctx context.Context, snap *models.SessionSnapshot) error
	// SaveAccessToken заменяет только access-токен.
	SaveAccessToken(ctx context.Context, token string) error
	// Load возвращает снимок или nil, если его нет либо он повреждён.
	Load(ctx context.Context) (*models.SessionSnapshot, error)
	// Clear удаляет все данные сессии.
	Clear(ctx context.Context) error
}

// LoginError ошибка входа с сообщением backend-а. Не ретраится.
type LoginError struct {
	Message string
	Status  int
}

func (e *LoginError) Error() string { return e.Message }

// ErrNotAuthenticated возвращается операциями, требующими установленной сессии.
var ErrNotAuthenticated = fmt.Errorf("not authenticated")

// SessionManager владеет сессией и её жизненным циклом.
// Вход и refresh ходят на backend напрямую, минуя api.Client:
// эти вызовы не несут bearer-токена и не должны зависеть от него.
type SessionManager struct {
	baseURL    string
	httpClient *http.Client
	store      Store
	log        *slog.Logger

	mu    sync.RWMutex
	state State
	snap  *models.SessionSnapshot
}

// NewSessionManager создает менеджер. baseURL уже содержит префикс API.
func NewSessionManager(baseURL string, timeout time.Duration, store Store, log *slog.Logger) *SessionManager {
	return &SessionManager{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		log:        log,
		state:      StateUnauthenticated,
	}
}

// Init восстанавливает сессию из хранилища без сетевых вызовов.
// Токен при этом не проверяется: хранилищу доверяем до первого отказа backend-а.
func (m *SessionManager) Init(ctx context.Context) error {
	const op = "auth.Init"

	snap, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if snap == nil {
		m.log.Info("no stored session, starting unauthenticated")
		return nil
	}

	m.mu.Lock()
	m.snap = snap
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.log.Info("session restored from store",
		slog.String("user_id", snap.User.ID),
		slog.String("role", string(snap.User.Role)))
	return nil
}

type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *models.User `json:"user"`
}

// Login выполняет вход. При отказе backend-а сессия не устанавливается,
// а сообщение сервера возвращается в *LoginError.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*models.User, error) {
	const op = "auth.Login"

	m.mu.Lock()
	m.state = StateAuthenticating
	m.mu.Unlock()

	status, body, err := m.postJSON(ctx, loginPath, map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		m.setUnauthenticated()
		m.log.Error("login request failed", sl.Err(err))
		return nil, &LoginError{Message: api.MsgNetworkFailure}
	}

	if status < 200 || status > 299 {
		m.setUnauthenticated()
		msg := errorMessage(body, "login failed")
		m.log.Warn("login rejected", slog.Int("status", status), slog.String("message", msg))
		return nil, &LoginError{Message: msg, Status: status}
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.User == nil || resp.Access == "" {
		m.setUnauthenticated()
		return nil, &LoginError{Message: "login failed", Status: status}
	}

	snap := &models.SessionSnapshot{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		User:         resp.User,
	}
	if err := m.store.Save(ctx, snap); err != nil {
		m.setUnauthenticated()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	m.snap = snap
	m.state = StateAuthenticated
	m.mu.Unlock()

	if exp, ok := tokenExpiry(resp.Access); ok {
		m.log.Info("logged in",
			slog.String("user_id", resp.User.ID),
			slog.Time("token_expires", exp))
	} else {
		m.log.Info("logged in", slog.String("user_id", resp.User.ID))
	}

	// Брендинг тенанта тянем после фиксации сессии: его отказ
	// не откатывает уже установленную авторизацию.
	if resp.User.TenantID != "" {
		m.fetchBranding(ctx, resp.User.TenantID)
	}

	return resp.User, nil
}

// Logout очищает хранилище и память безусловно, без сетевых вызовов.
func (m *SessionManager) Logout(ctx context.Context) error {
	const op = "auth.Logout"

	err := m.store.Clear(ctx)

	m.mu.Lock()
	m.snap = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.log.Info("logged out")
	return nil
}

// Refresh меняет refresh-токен на новый access-токен и пересохраняет
// только его. Любой отказ сносит сессию целиком: политика fail-closed.
func (m *SessionManager) Refresh(ctx context.Context) (string, error) {
	const op = "auth.Refresh"

	m.mu.RLock()
	var refresh string
	if m.snap != nil {
		refresh = m.snap.RefreshToken
	}
	m.mu.RUnlock()

	if refresh == "" {
		m.teardown(ctx)
		return "", fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	status, body, err := m.postJSON(ctx, refreshPath, map[string]string{"refresh": refresh}, "")
	if err != nil || status < 200 || status > 299 {
		m.teardown(ctx)
		if err != nil {
			m.log.Warn("token refresh failed, session cleared", sl.Err(err))
			return "", fmt.Errorf("%s: %w", op, err)
		}
		m.log.Warn("token refresh rejected, session cleared", slog.Int("status", status))
		return "", fmt.Errorf("%s: refresh rejected with status %d", op, status)
	}

	var resp struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Access == "" {
		m.teardown(ctx)
		return "", fmt.Errorf("%s: malformed refresh response", op)
	}

	if err := m.store.SaveAccessToken(ctx, resp.Access); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	if m.snap != nil {
		m.snap.AccessToken = resp.Access
	}
	m.mu.Unlock()

	m.log.Info("access token refreshed")
	return resp.Access, nil
}

// AccessToken реализует api.TokenSource.
func (m *SessionManager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return ""
	}
	return m.snap.AccessToken
}

// CurrentUser возвращает пользователя сессии или nil.
func (m *SessionManager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil
	}
	return m.snap.User
}

// Branding возвращает брендинг тенанта или nil.
func (m *SessionManager) Branding() *models.Branding {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil
	}
	return m.snap.Branding
}

// State возвращает текущее состояние сессии.
func (m *SessionManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated сообщает, установлена ли сессия.
func (m *SessionManager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// TokenExpiry возвращает срок действия access-токена из его exp-клейма.
// Подпись не проверяется: ключи знает только backend.
func (m *SessionManager) TokenExpiry() (time.Time, bool) {
	return tokenExpiry(m.AccessToken())
}

func (m *SessionManager) setUnauthenticated() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.mu.Unlock()
}

// teardown сносит сессию в памяти и хранилище.
func (m *SessionManager) teardown(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error("failed to clear session store", sl.Err(err))
	}
	m.mu.Lock()
	m.snap = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()
}

type brandingResponse struct {
	Branding *models.Branding `json:"branding"`
}

// fetchBranding подтягивает брендинг тенанта best-effort:
// отказ логируется и проглатывается.
func (m *SessionManager) fetchBranding(ctx context.Context, tenantID string) {
	token := m.AccessToken()

	status, body, err := m.getJSON(ctx, "/platform/tenants/"+tenantID+"/", token)
	if err != nil || status < 200 || status > 299 {
		m.log.Warn("branding fetch failed",
			slog.String("tenant_id", tenantID), slog.Int("status", status), slog.Any("err", err))
		return
	}

	var resp brandingResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Branding == nil {
		m.log.Warn("malformed branding response", slog.String("tenant_id", tenantID))
		return
	}

	m.mu.Lock()
	if m.snap != nil {
		m.snap.Branding = resp.Branding
	}
	snap := m.snap
	m.mu.Unlock()

	if snap != nil {
		if err := m.store.Save(ctx, snap); err != nil {
			m.log.Warn("failed to persist branding", sl.Err(err))
		}
	}
}

func (m *SessionManager) postJSON(ctx context.Context, path string, payload any, token string) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return m.doRequest(req)
}

func (m *SessionManager) getJSON(ctx context.Context, path, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return m.doRequest(req)
}

func (m *SessionManager) doRequest(req *http.Request) (int, []byte, error) {
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// errorMessage достаёт текст ошибки из тела ответа backend-а.
func errorMessage(body []byte, fallback string) string {
	var parsed struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fallback
	}
	switch {
	case parsed.Message != "":
		return parsed.Message
	case parsed.Detail != "":
		return parsed.Detail
	}
	return fallback
}
