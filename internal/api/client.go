// Package api реализует единую точку доступа к backend API платформы.
//
// Все ресурсные сервисы ходят к backend только через Client: он добавляет
// bearer-токен и Content-Type по умолчанию, а ошибки нормализует в *Error
// со статусом, сообщением и ошибками полей.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
)

// TokenSource отдаёт текущий access-токен сессии.
// Пустая строка означает, что сессии нет и заголовок Authorization не ставится.
type TokenSource interface {
	AccessToken() string
}

// Client типизированный HTTP-клиент backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *slog.Logger
}

// New создает новый Client. baseURL уже содержит префикс API,
// например http://host/api/v1.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// do выполняет запрос и возвращает тело успешного ответа вместе с его
// Content-Type. Ответы вне 2xx и сетевые сбои превращаются в *Error.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, string, error) {
	const op = "api.do"

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("backend request failed",
			slog.String("method", method), slog.String("path", path), slog.Any("err", err))
		return nil, "", &Error{Message: MsgNetworkFailure, Status: 0}
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Message: MsgNetworkFailure, Status: 0}
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", decodeError(resp.StatusCode, contentType, data)
	}
	return data, contentType, nil
}

// isJSON сообщает, является ли Content-Type JSON-ом.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json"
}

// decode разбирает тело успешного ответа в T. JSON декодируется как есть,
// остальные типы содержимого возвращаются текстом, если T — строка.
func decode[T any](data []byte, contentType string) (T, error) {
	var out T
	if len(data) == 0 {
		return out, nil
	}
	if isJSON(contentType) {
		if err := json.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("api.decode: %w", err)
		}
		return out, nil
	}
	if s, ok := any(&out).(*string); ok {
		*s = string(data)
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("api.decode: %w", err)
	}
	return out, nil
}

// Get выполняет GET-запрос и декодирует ответ в T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	data, contentType, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](data, contentType)
}

// Post выполняет POST-запрос с JSON-телом и декодирует ответ в T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	data, contentType, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](data, contentType)
}

// Put выполняет PUT-запрос с JSON-телом и декодирует ответ в T.
func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	data, contentType, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](data, contentType)
}

// Patch выполняет PATCH-запрос с JSON-телом и декодирует ответ в T.
func Patch[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	data, contentType, err := c.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](data, contentType)
}

// Delete выполняет DELETE-запрос; тело ответа игнорируется.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, _, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}
