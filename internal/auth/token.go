package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry достаёт exp-клейм из access-токена без проверки подписи.
// Используется только для логов и отчёта о сессии, не для авторизации.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
