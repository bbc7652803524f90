// Package sl добавляет мелкие помощники для slog, чтобы поля лога
// формировались одинаково по всему дашборду.
package sl

import "log/slog"

// Err упаковывает ошибку в slog.Attr с ключом "error":
//
//	log.Error("failed to refresh token", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
