package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/photoalbum/internal/domain"
	"github.com/vbonduro/photoalbum/internal/session"
	"github.com/vbonduro/photoalbum/internal/store"
)

func newAdminService(env *testEnv) *AdminService {
	return NewAdminService(AdminRepositories{
		Websites: env.websites,
		Users:    env.users,
		Config:   env.config,
		Photos:   env.photos,
		Comments: env.comments,
	}, env.index, env.photoStg, 1, slog.Default())
}

func TestAdminDeletePhoto_RemovesIndexAndBlob(t *testing.T) {
	env := newTestEnv(t, defaultOptions(), nil)
	admin := newAdminService(env)
	ctx := context.Background()

	p := env.addPhoto(t, store.NewPhoto{FileName: "lighthouse.jpeg", StorageKey: "user_1_lighthouse.jpg"})
	env.photoStg.saved[p.StorageKey] = jpegData
	require.NoError(t, env.index.Add(ctx, p, "en"))
	c, err := env.comments.Create(ctx, p.ID, 1, "nice")
	require.NoError(t, err)

	require.NoError(t, admin.DeletePhoto(ctx, p.ID))

	got, err := env.photos.FindOne(ctx, store.PhotoFilter{IDs: []int64{p.ID}})
	require.NoError(t, err)
	assert.Nil(t, got)

	res, err := env.index.Search(ctx, "en", "lighthouse", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	assert.NotContains(t, env.photoStg.saved, p.StorageKey)

	gone, err := env.comments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAdminDeletePhoto_NotFound(t *testing.T) {
	env := newTestEnv(t, defaultOptions(), nil)
	err := newAdminService(env).DeletePhoto(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminSetPhotoActive(t *testing.T) {
	env := newTestEnv(t, defaultOptions(), nil)
	admin := newAdminService(env)
	ctx := context.Background()

	p := env.addPhoto(t, store.NewPhoto{})
	require.NoError(t, admin.SetPhotoActive(ctx, p.ID, false))

	_, err := env.svc.GetPhoto(ctx, session.Anonymous, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, admin.SetPhotoActive(ctx, p.ID, true))
	_, err = env.svc.GetPhoto(ctx, session.Anonymous, p.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, admin.SetPhotoActive(ctx, 4242, false), ErrNotFound)
}

func TestAdminSetCommentActive(t *testing.T) {
	env := newTestEnv(t, defaultOptions(), nil)
	admin := newAdminService(env)
	ctx := context.Background()

	p := env.addPhoto(t, store.NewPhoto{})
	c, err := env.comments.Create(ctx, p.ID, 1, "spam")
	require.NoError(t, err)

	require.NoError(t, admin.SetCommentActive(ctx, c.ID, false))
	list, err := env.comments.ListActiveByPhotoID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Error(t, admin.SetCommentActive(ctx, 4242, false))
}

func TestAdminCreateUser(t *testing.T) {
	env := newTestEnv(t, defaultOptions(), nil)
	admin := newAdminService(env)
	ctx := context.Background()

	u, err := admin.CreateUser(ctx, "Jordi", "jordi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jordi", u.DisplayName)

	_, err = admin.CreateUser(ctx, "", "x@example.com")
	assert.Error(t, err)
}

func TestAdminSetMaxSize(t *testing.T) {
	env := newTestEnv(t, defaultOptions(), nil)
	admin := newAdminService(env)
	ctx := context.Background()

	require.NoError(t, admin.SetMaxSize(ctx, 1500000))
	size, err := env.svc.MaxSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1500000), size)

	require.NoError(t, admin.SetMaxSize(ctx, 0))
	size, err = env.svc.MaxSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxSize, size)

	assert.Error(t, admin.SetMaxSize(ctx, -1))
}

func TestAdminUpdateWebsite(t *testing.T) {
	env := newTestEnv(t, defaultOptions(), nil)
	admin := newAdminService(env)
	ctx := context.Background()

	w, err := admin.UpdateWebsite(ctx, func(w *domain.Website) {
		w.PhotoalbumNew = true
		w.PhotoalbumComment = false
	})
	require.NoError(t, err)
	assert.True(t, w.PhotoalbumNew)

	stored, err := env.websites.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stored.PhotoalbumNew)
	assert.False(t, stored.PhotoalbumComment)

	missing := int64(4242)
	_, err = admin.UpdateWebsite(ctx, func(w *domain.Website) { w.PhotoalbumAnonUserID = &missing })
	assert.ErrorIs(t, err, ErrNotFound)
}
