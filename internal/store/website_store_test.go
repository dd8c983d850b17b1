package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsiteStoreGetByID(t *testing.T) {
	websites := NewWebsiteStore(openTestDB(t))

	w, err := websites.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, "Default", w.Name)
	assert.True(t, w.PhotoalbumNew)
	require.NotNil(t, w.PhotoalbumAnonUserID)
	assert.Equal(t, int64(1), *w.PhotoalbumAnonUserID)
}

func TestWebsiteStoreGetByID_NotFound(t *testing.T) {
	websites := NewWebsiteStore(openTestDB(t))

	w, err := websites.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestWebsiteStoreUpdate(t *testing.T) {
	websites := NewWebsiteStore(openTestDB(t))
	ctx := context.Background()

	w, err := websites.GetByID(ctx, 1)
	require.NoError(t, err)
	w.PhotoalbumComment = false
	w.PhotoalbumAnonUserID = nil
	require.NoError(t, websites.Update(ctx, w))

	got, err := websites.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, got.PhotoalbumComment)
	assert.Nil(t, got.PhotoalbumAnonUserID)
}

func TestUserStoreCreateAndGet(t *testing.T) {
	users := NewUserStore(openTestDB(t))
	ctx := context.Background()

	u, err := users.Create(ctx, "Ana", "ana@example.com")
	require.NoError(t, err)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.DisplayName)
	assert.Equal(t, "ana@example.com", got.Email)

	missing, err := users.GetByID(ctx, 99999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestConfigStoreMaxSize(t *testing.T) {
	configs := NewConfigStore(openTestDB(t))
	ctx := context.Background()

	cfg, err := configs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.MaxSize)

	require.NoError(t, configs.SetMaxSize(ctx, 2048))
	cfg, err = configs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.EffectiveMaxSize())
}
