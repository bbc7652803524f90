// Package sessionstore хранит снимок авторизационной сессии в redis,
// чтобы она переживала перезапуск процесса. Токены, пользователь и
// брендинг лежат отдельными ключами и очищаются одним пайплайном.
package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/zhelezov/gym-dashboard/internal/config"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

const (
	keyAccessToken  = "session:access_token"
	keyRefreshToken = "session:refresh_token"
	keyUser         = "session:user"
	keyBranding     = "session:branding"
)

// Store redis-хранилище сессии.
type Store struct {
	Db *redis.Client
}

// New подключается к redis и проверяет соединение.
func New(ctx context.Context, cfg config.RedisConnection) (*Store, error) {
	const op = "sessionstore.New"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db}, nil
}

// Save записывает все ключи сессии одним пайплайном.
func (s *Store) Save(ctx context.Context, snap *models.SessionSnapshot) error {
	const op = "sessionstore.Save"

	userData, err := json.Marshal(snap.User)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	pipe := s.Db.TxPipeline()
	pipe.Set(ctx, keyAccessToken, snap.AccessToken, 0)
	pipe.Set(ctx, keyRefreshToken, snap.RefreshToken, 0)
	pipe.Set(ctx, keyUser, userData, 0)
	if snap.Branding != nil {
		brandingData, err := json.Marshal(snap.Branding)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		pipe.Set(ctx, keyBranding, brandingData, 0)
	} else {
		pipe.Del(ctx, keyBranding)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveAccessToken заменяет только access-токен; refresh-токен остаётся прежним.
func (s *Store) SaveAccessToken(ctx context.Context, token string) error {
	const op = "sessionstore.SaveAccessToken"
	if err := s.Db.Set(ctx, keyAccessToken, token, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load возвращает сохранённый снимок сессии. Отсутствующие или битые
// данные считаются отсутствием сессии: возвращается nil без ошибки.
func (s *Store) Load(ctx context.Context) (*models.SessionSnapshot, error) {
	const op = "sessionstore.Load"

	vals, err := s.Db.MGet(ctx, keyAccessToken, keyRefreshToken, keyUser, keyBranding).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	snap := &models.SessionSnapshot{}
	if v, ok := vals[0].(string); ok {
		snap.AccessToken = v
	}
	if v, ok := vals[1].(string); ok {
		snap.RefreshToken = v
	}
	if v, ok := vals[2].(string); ok {
		var user models.User
		if err := json.Unmarshal([]byte(v), &user); err == nil {
			snap.User = &user
		}
	}
	if v, ok := vals[3].(string); ok {
		var branding models.Branding
		if err := json.Unmarshal([]byte(v), &branding); err == nil {
			snap.Branding = &branding
		}
	}

	if !snap.Valid() {
		return nil, nil
	}
	return snap, nil
}

// Clear удаляет все ключи сессии одной командой.
func (s *Store) Clear(ctx context.Context) error {
	const op = "sessionstore.Clear"
	if err := s.Db.Del(ctx, keyAccessToken, keyRefreshToken, keyUser, keyBranding).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
