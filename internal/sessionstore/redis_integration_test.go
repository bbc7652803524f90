package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/zhelezov/gym-dashboard/internal/config"
	"github.com/zhelezov/gym-dashboard/internal/models"
)

// setupTestRedis поднимает контейнер redis и возвращает готовый Store
func setupTestRedis(t *testing.T) (*Store, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForListeningPort("6379/tcp").
			WithStartupTimeout(2 * time.Minute),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err, "failed to get port")

	store, err := New(ctx, config.RedisConnection{
		AddressRedis: "localhost:" + port.Port(),
		DialTimeout:  5 * time.Second,
		TimeoutRedis: 3 * time.Second,
	})
	require.NoError(t, err, "failed to connect to redis")

	cleanup := func() {
		_ = redisContainer.Terminate(ctx)
	}
	return store, cleanup
}

func TestStore_SaveLoadClear(t *testing.T) {
	store, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	snap := &models.SessionSnapshot{
		AccessToken:  "T1",
		RefreshToken: "R1",
		User: &models.User{
			ID:       "u1",
			Email:    "owner@example.com",
			Role:     models.RoleGymOwner,
			Nickname: "Иван Петров",
			TenantID: "t1",
		},
		Branding: &models.Branding{PrimaryColor: "#112233", SecondaryColor: "#445566"},
	}

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.AccessToken, loaded.AccessToken)
	assert.Equal(t, snap.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, snap.User, loaded.User)
	assert.Equal(t, snap.Branding, loaded.Branding)

	// SaveAccessToken меняет только access-токен
	require.NoError(t, store.SaveAccessToken(ctx, "T2"))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "T2", loaded.AccessToken)
	assert.Equal(t, "R1", loaded.RefreshToken)

	// Clear удаляет все ключи разом
	require.NoError(t, store.Clear(ctx))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_LoadCorruptedUser(t *testing.T) {
	store, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	// Битый JSON пользователя должен считаться отсутствием сессии
	require.NoError(t, store.Db.Set(ctx, keyAccessToken, "T1", 0).Err())
	require.NoError(t, store.Db.Set(ctx, keyRefreshToken, "R1", 0).Err())
	require.NoError(t, store.Db.Set(ctx, keyUser, "{not-json", 0).Err())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_LoadEmpty(t *testing.T) {
	store, cleanup := setupTestRedis(t)
	defer cleanup()

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
