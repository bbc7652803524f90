package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MsgNetworkFailure сообщение для сбоя самого запроса (DNS, соединение, таймаут).
const MsgNetworkFailure = "network error: check your connection"

// defaultErrorMessage подставляется, когда backend не прислал текст ошибки.
const defaultErrorMessage = "an error occurred"

// Error типизированная ошибка backend API. Status равен нулю,
// если до backend достучаться не удалось.
type Error struct {
	Message     string              `json:"message"`
	Status      int                 `json:"status"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsNetwork сообщает, была ли ошибка сетевой (запрос не дошёл до backend).
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// errorBody формат тела ошибки backend-а. Django присылает detail,
// собственные обработчики — message или error.
type errorBody struct {
	Message string              `json:"message"`
	Detail  string              `json:"detail"`
	ErrText string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// decodeError разбирает тело неуспешного ответа в *Error.
// Некорректный JSON схлопывается в сообщение по умолчанию и дальше не всплывает.
func decodeError(status int, contentType string, data []byte) *Error {
	out := &Error{Message: defaultErrorMessage, Status: status}
	if !isJSON(contentType) || len(data) == 0 {
		return out
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return out
	}
	switch {
	case body.Message != "":
		out.Message = body.Message
	case body.Detail != "":
		out.Message = body.Detail
	case body.ErrText != "":
		out.Message = body.ErrText
	}
	out.FieldErrors = body.Errors
	return out
}
